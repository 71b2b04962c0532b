package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/testfixtures"
	apperrors "github.com/spec-kit/room-reservation/pkg/util"
)

func TestRoomLifecycle(t *testing.T) {
	store := testfixtures.NewStore()
	svc := NewRoomService(store.Stores().Rooms, zap.NewNop())
	admin := domain.ActorFor(store.AddAccount("Admin", "admin@example.com", domain.RoleAdministrator, true))
	ctx := context.Background()

	room, err := svc.Create(ctx, admin, RoomInput{Name: " Board ", Capacity: 12, Location: "2nd floor", Equipment: "projector"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if room.Name != "Board" || !room.Available {
		t.Fatalf("unexpected room %+v", room)
	}

	closed := false
	updated, err := svc.Update(ctx, admin, room.ID, RoomInput{Name: "Boardroom", Capacity: 14, Available: &closed})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Boardroom" || updated.Capacity != 14 || updated.Available {
		t.Fatalf("unexpected update %+v", updated)
	}

	available, _ := svc.ListAvailable(ctx)
	if len(available) != 0 {
		t.Fatalf("closed room must not be listed, got %d", len(available))
	}

	reopened, err := svc.SetAvailability(ctx, admin, room.ID, true)
	if err != nil || !reopened.Available {
		t.Fatalf("SetAvailability: %v %+v", err, reopened)
	}
	available, _ = svc.ListAvailable(ctx)
	if len(available) != 1 {
		t.Fatalf("expected reopened room listed, got %d", len(available))
	}
}

func TestRoomValidationAndAccess(t *testing.T) {
	store := testfixtures.NewStore()
	svc := NewRoomService(store.Stores().Rooms, zap.NewNop())
	admin := domain.ActorFor(store.AddAccount("Admin", "admin@example.com", domain.RoleAdministrator, true))
	user := domain.ActorFor(store.AddAccount("U", "u@example.com", domain.RoleDelegate, true))
	ctx := context.Background()

	for _, input := range []RoomInput{{Name: "", Capacity: 3}, {Name: "A", Capacity: 0}, {Name: "A", Capacity: -2}} {
		if _, err := svc.Create(ctx, admin, input); !errors.Is(err, domain.ErrInvalidRoom) {
			t.Fatalf("%+v: expected invalid room, got %v", input, err)
		}
	}
	if _, err := svc.Create(ctx, user, RoomInput{Name: "A", Capacity: 3}); !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected admin required, got %v", err)
	}
	if _, err := svc.SetAvailability(ctx, admin, "missing", false); apperrors.ToDomainError(err).Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if _, err := svc.Get(ctx, "missing"); apperrors.ToDomainError(err).Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
