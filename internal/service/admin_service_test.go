package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/testfixtures"
)

func TestDashboard(t *testing.T) {
	store := testfixtures.NewStore()
	admin := store.AddAccount("Admin", "admin@example.com", domain.RoleAdministrator, true)
	user := store.AddAccount("U", "u@example.com", domain.RoleDelegate, true)
	store.AddAccount("P1", "p1@example.com", domain.RoleDelegate, false)
	store.AddAccount("P2", "p2@example.com", domain.RoleInstructor, false)
	room := store.AddRoom("A", 8, true)
	store.AddRoom("B", 4, false)

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	store.AddReservation(room.ID, user.ID, date, domain.ClockAt(9, 0), domain.ClockAt(10, 0), domain.StatusPending)
	store.AddReservation(room.ID, user.ID, date, domain.ClockAt(11, 0), domain.ClockAt(12, 0), domain.StatusConfirmed)
	store.AddReservation(room.ID, user.ID, date, domain.ClockAt(13, 0), domain.ClockAt(14, 0), domain.StatusRejected)

	svc := NewAdminService(store.Stores())
	d, err := svc.Dashboard(context.Background(), domain.ActorFor(admin))
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.TotalAccounts != 4 || d.PendingAccountCount != 2 || d.TotalRooms != 2 {
		t.Fatalf("unexpected totals %+v", d)
	}
	if len(d.PendingAccounts) != 2 || len(d.PendingReservations) != 1 {
		t.Fatalf("unexpected pending lists %d/%d", len(d.PendingAccounts), len(d.PendingReservations))
	}
	want := map[domain.ReservationStatus]int{domain.StatusPending: 1, domain.StatusConfirmed: 1, domain.StatusRejected: 1, domain.StatusCompleted: 0}
	for status, n := range want {
		if d.StatusCounts[status] != n {
			t.Fatalf("%s: want %d, got %d", status, n, d.StatusCounts[status])
		}
	}

	if _, err := svc.Dashboard(context.Background(), domain.ActorFor(user)); !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected admin required, got %v", err)
	}
}
