package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	sentinel := NewDomainError("SCHEDULING_CONFLICT", "taken", http.StatusConflict, nil)

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain error passes through", sentinel, "SCHEDULING_CONFLICT", http.StatusConflict},
		{"wrapped domain error", fmt.Errorf("submit: %w", sentinel), "SCHEDULING_CONFLICT", http.StatusConflict},
		{"no rows maps to not found", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"wrapped no rows", fmt.Errorf("get room: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"unknown error is internal", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.Code != tt.wantCode || got.HTTPStatus != tt.wantStatus {
				t.Fatalf("got %s/%d, want %s/%d", got.Code, got.HTTPStatus, tt.wantCode, tt.wantStatus)
			}
		})
	}

	if ToDomainError(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestWithDetailsKeepsIdentity(t *testing.T) {
	sentinel := NewDomainError("SCHEDULING_CONFLICT", "taken", http.StatusConflict, nil)
	err := sentinel.WithDetails(map[string]any{"room_id": "r1"})

	if !errors.Is(err, sentinel) {
		t.Fatal("expected detailed error to match its sentinel")
	}
	got := ToDomainError(err)
	if got.Details["room_id"] != "r1" {
		t.Fatalf("expected details to survive conversion, got %#v", got.Details)
	}
	if sentinel.Details != nil {
		t.Fatal("sentinel must not be mutated")
	}
}
