package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/room-reservation/internal/observability"
)

func TestIPRateLimiterBurst(t *testing.T) {
	rl := NewIPRateLimiter(1, 2, time.Minute)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatalf("burst of 2 should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("other IPs have their own bucket")
	}
}

func TestIPRateLimiterForgetsIdleVisitors(t *testing.T) {
	rl := NewIPRateLimiter(1, 1, time.Minute)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	rl.Allow("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Fatalf("idle visitor should have been swept")
	}
}

func TestRateLimitByIPReturns429(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Post("/auth/login", RateLimitByIP(NewIPRateLimiter(1, 1, time.Minute)), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	first, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/login", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if first.StatusCode != fiber.StatusNoContent {
		t.Fatalf("first status = %d", first.StatusCode)
	}
	second, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/login", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if second.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", second.StatusCode)
	}
}
