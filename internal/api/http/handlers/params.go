package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/room-reservation/internal/auth"
	"github.com/spec-kit/room-reservation/internal/domain"
	apperrors "github.com/spec-kit/room-reservation/pkg/util"
)

const maxPageSize = 100

func currentPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func currentActor(c *fiber.Ctx) (domain.Actor, error) {
	principal, err := currentPrincipal(c)
	if err != nil {
		return domain.Actor{}, err
	}
	return principal.Actor(), nil
}

// idParam returns the named path parameter when it is a UUID.
func idParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewValidationError("invalid id", map[string]any{"field": name})
	}
	return raw, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// pagination reads page and page_size, capping the page size.
func pagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

func parseStatuses(val string) ([]domain.ReservationStatus, error) {
	if val == "" {
		return nil, nil
	}
	var out []domain.ReservationStatus
	for _, part := range strings.Split(val, ",") {
		status := domain.ReservationStatus(strings.TrimSpace(part))
		switch status {
		case domain.StatusPending, domain.StatusConfirmed, domain.StatusRejected, domain.StatusCompleted:
			out = append(out, status)
		default:
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(status)})
		}
	}
	return out, nil
}
