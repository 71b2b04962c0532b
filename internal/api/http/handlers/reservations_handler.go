package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/room-reservation/internal/api/dto"
	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/service"
	apperrors "github.com/spec-kit/room-reservation/pkg/util"
)

// ReservationsHandler serves booking endpoints for approved accounts.
type ReservationsHandler struct {
	reservations *service.ReservationService
	rooms        *service.RoomService
}

// NewReservationsHandler constructs handler.
func NewReservationsHandler(reservations *service.ReservationService, rooms *service.RoomService) *ReservationsHandler {
	return &ReservationsHandler{reservations: reservations, rooms: rooms}
}

type slotRequest struct {
	roomID string
	date   time.Time
	start  domain.Clock
	end    domain.Clock
}

func parseSlot(roomID, date, start, end string) (slotRequest, error) {
	if roomID == "" || date == "" || start == "" || end == "" {
		return slotRequest{}, apperrors.NewValidationError("room_id, date, start_time, end_time required", nil)
	}
	if _, err := uuid.Parse(roomID); err != nil {
		return slotRequest{}, apperrors.NewValidationError("room_id must be a UUID", map[string]any{"field": "room_id"})
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return slotRequest{}, apperrors.NewValidationError("date must be YYYY-MM-DD", map[string]any{"field": "date"})
	}
	s, err := domain.ParseClock(start)
	if err != nil {
		return slotRequest{}, apperrors.NewValidationError("start_time must be HH:MM", map[string]any{"field": "start_time"})
	}
	e, err := domain.ParseClock(end)
	if err != nil {
		return slotRequest{}, apperrors.NewValidationError("end_time must be HH:MM", map[string]any{"field": "end_time"})
	}
	return slotRequest{roomID: roomID, date: d, start: s, end: e}, nil
}

// Availability GET /reservations/availability?room_id=&date=&start_time=&end_time=.
func (h *ReservationsHandler) Availability(c *fiber.Ctx) error {
	slot, err := parseSlot(c.Query("room_id"), c.Query("date"), c.Query("start_time"), c.Query("end_time"))
	if err != nil {
		return err
	}
	if slot.start >= slot.end {
		return domain.ErrInvalidInterval
	}
	room, err := h.rooms.Get(c.UserContext(), slot.roomID)
	if err != nil {
		return err
	}
	conflict, err := h.reservations.HasConflict(c.UserContext(), service.ConflictCheck{
		RoomID: slot.roomID,
		Date:   slot.date,
		Start:  slot.start,
		End:    slot.end,
		Policy: domain.PolicySubmit,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AvailabilityResponse{
		RoomID:    slot.roomID,
		Date:      slot.date.Format(domain.DateLayout),
		StartTime: slot.start.String(),
		EndTime:   slot.end.String(),
		Available: room.Available && !conflict,
	}})
}

// Create POST /reservations.
func (h *ReservationsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	slot, err := parseSlot(req.RoomID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	res, err := h.reservations.Submit(c.UserContext(), actor, service.SubmitInput{
		RoomID: slot.roomID,
		Date:   slot.date,
		Start:  slot.start,
		End:    slot.end,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReservationResponse(res)})
}

// ListMine GET /reservations.
func (h *ReservationsHandler) ListMine(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	items, err := h.reservations.ListForAccount(c.UserContext(), actor, service.ListInput{
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReservationResponses(items)})
}

// Cancel POST /reservations/:id/cancel.
func (h *ReservationsHandler) Cancel(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	res, err := h.reservations.Cancel(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReservationResponse(res)})
}
