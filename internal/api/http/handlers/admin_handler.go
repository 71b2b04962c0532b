package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/room-reservation/internal/api/dto"
	"github.com/spec-kit/room-reservation/internal/service"
	apperrors "github.com/spec-kit/room-reservation/pkg/util"
)

// AdminHandler exposes the administrator work queue.
type AdminHandler struct {
	admin        *service.AdminService
	auth         *service.AuthService
	reservations *service.ReservationService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, auth *service.AuthService, reservations *service.ReservationService) *AdminHandler {
	return &AdminHandler{admin: admin, auth: auth, reservations: reservations}
}

// Dashboard GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	d, err := h.admin.Dashboard(c.UserContext(), actor)
	if err != nil {
		return err
	}

	accounts := make([]dto.AccountResponse, 0, len(d.PendingAccounts))
	for i := range d.PendingAccounts {
		accounts = append(accounts, dto.NewAccountResponse(&d.PendingAccounts[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"pending_accounts":      accounts,
		"pending_reservations":  dto.NewReservationResponses(d.PendingReservations),
		"total_accounts":        d.TotalAccounts,
		"pending_account_count": d.PendingAccountCount,
		"total_rooms":           d.TotalRooms,
		"reservation_counts":    d.StatusCounts,
	}})
}

// ApproveAccounts POST /admin/accounts/approve.
func (h *AdminHandler) ApproveAccounts(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ids, err := parseIDs(c)
	if err != nil {
		return err
	}
	n, err := h.auth.Approve(c.UserContext(), actor, ids)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"approved": n}})
}

// Confirm POST /admin/reservations/:id/confirm.
func (h *AdminHandler) Confirm(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	res, err := h.reservations.Confirm(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReservationResponse(res)})
}

// Reject POST /admin/reservations/:id/reject.
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	res, err := h.reservations.Reject(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReservationResponse(res)})
}

// ConfirmBatch POST /admin/reservations/confirm.
func (h *AdminHandler) ConfirmBatch(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ids, err := parseIDs(c)
	if err != nil {
		return err
	}
	result, err := h.reservations.ConfirmBatch(c.UserContext(), actor, ids)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// RejectBatch POST /admin/reservations/reject.
func (h *AdminHandler) RejectBatch(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ids, err := parseIDs(c)
	if err != nil {
		return err
	}
	result, err := h.reservations.RejectBatch(c.UserContext(), actor, ids)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// History GET /admin/reservations/:id/history.
func (h *AdminHandler) History(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.reservations.History(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryResponses(entries)})
}

func parseIDs(c *fiber.Ctx) ([]string, error) {
	var req dto.IDsRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.IDs) == 0 {
		return nil, apperrors.NewValidationError("ids required", map[string]any{"field": "ids"})
	}
	return req.IDs, nil
}
