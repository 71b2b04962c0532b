package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/room-reservation/internal/api/http/handlers"
	"github.com/spec-kit/room-reservation/internal/auth"
	"github.com/spec-kit/room-reservation/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Rooms          *handlers.RoomsHandler
	Reservations   *handlers.ReservationsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	// AuthLimiter throttles register and login per client IP; nil disables it.
	AuthLimiter *IPRateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth", RateLimitByIP(cfg.AuthLimiter))
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	app.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	// Middleware is attached per route so unknown paths still fall through to 404.
	approved := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireApproved(), h}
	}
	app.Get("/rooms", approved(cfg.Rooms.ListAvailable)...)
	app.Get("/rooms/:id", approved(cfg.Rooms.Get)...)
	app.Get("/reservations/availability", approved(cfg.Reservations.Availability)...)
	app.Post("/reservations", approved(cfg.Reservations.Create)...)
	app.Get("/reservations", approved(cfg.Reservations.ListMine)...)
	app.Post("/reservations/:id/cancel", approved(cfg.Reservations.Cancel)...)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireApproved(), auth.RequireRole(domain.RoleAdministrator))
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Post("/accounts/approve", cfg.Admin.ApproveAccounts)
	admin.Get("/rooms", cfg.Rooms.ListAll)
	admin.Post("/rooms", cfg.Rooms.Create)
	admin.Put("/rooms/:id", cfg.Rooms.Update)
	admin.Patch("/rooms/:id/availability", cfg.Rooms.SetAvailability)
	admin.Post("/reservations/confirm", cfg.Admin.ConfirmBatch)
	admin.Post("/reservations/reject", cfg.Admin.RejectBatch)
	admin.Post("/reservations/:id/confirm", cfg.Admin.Confirm)
	admin.Post("/reservations/:id/reject", cfg.Admin.Reject)
	admin.Get("/reservations/:id/history", cfg.Admin.History)
}
