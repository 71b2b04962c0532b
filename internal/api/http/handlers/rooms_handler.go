package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/room-reservation/internal/api/dto"
	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/service"
	apperrors "github.com/spec-kit/room-reservation/pkg/util"
)

// RoomsHandler serves the room catalogue.
type RoomsHandler struct {
	rooms *service.RoomService
}

// NewRoomsHandler constructs handler.
func NewRoomsHandler(rooms *service.RoomService) *RoomsHandler {
	return &RoomsHandler{rooms: rooms}
}

// ListAvailable GET /rooms.
func (h *RoomsHandler) ListAvailable(c *fiber.Ctx) error {
	rooms, err := h.rooms.ListAvailable(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roomResponses(rooms)})
}

// Get GET /rooms/:id.
func (h *RoomsHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoomResponse(room)})
}

// ListAll GET /admin/rooms.
func (h *RoomsHandler) ListAll(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	rooms, err := h.rooms.ListAll(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roomResponses(rooms)})
}

// Create POST /admin/rooms.
func (h *RoomsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	room, err := h.rooms.Create(c.UserContext(), actor, roomInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRoomResponse(room)})
}

// Update PUT /admin/rooms/:id.
func (h *RoomsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	room, err := h.rooms.Update(c.UserContext(), actor, id, roomInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoomResponse(room)})
}

// SetAvailability PATCH /admin/rooms/:id/availability.
func (h *RoomsHandler) SetAvailability(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AvailabilityRequest
	if err := c.BodyParser(&req); err != nil || req.Available == nil {
		return apperrors.NewValidationError("available required", nil)
	}
	room, err := h.rooms.SetAvailability(c.UserContext(), actor, id, *req.Available)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoomResponse(room)})
}

func roomInput(req dto.RoomRequest) service.RoomInput {
	return service.RoomInput{
		Name:      req.Name,
		Capacity:  req.Capacity,
		Location:  req.Location,
		Equipment: req.Equipment,
		Available: req.Available,
	}
}

func roomResponses(rooms []domain.Room) []dto.RoomResponse {
	items := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		items = append(items, dto.NewRoomResponse(&rooms[i]))
	}
	return items
}
