package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/room-reservation/internal/domain"
)

func TestRegistrationMessage(t *testing.T) {
	account := &domain.Account{Name: "Ada", Email: "ada@example.com", Role: domain.RoleInstructor}
	msg := RegistrationMessage("noreply@example.com", account)

	if msg.To != "ada@example.com" || msg.From != "noreply@example.com" {
		t.Fatalf("unexpected addressing %+v", msg)
	}
	if !strings.Contains(msg.Body, "Hello Ada") || !strings.Contains(msg.Body, "Instructor") {
		t.Fatalf("body missing account fields:\n%s", msg.Body)
	}
}

func TestConfirmationMessage(t *testing.T) {
	res := &domain.Reservation{
		Date:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Start: domain.ClockAt(9, 0),
		End:   domain.ClockAt(10, 0),
	}
	room := &domain.Room{Name: "A", Location: "First floor"}
	account := &domain.Account{Name: "Ada", Email: "ada@example.com"}

	msg := ConfirmationMessage("noreply@example.com", res, room, account)
	for _, want := range []string{"2024-06-01", "09:00 - 10:00", "A - First floor", "CONFIRMED"} {
		if !strings.Contains(msg.Body, want) {
			t.Fatalf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestMemoryQueueRetryDeadLetters(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()
	job := NewJob("confirmation", Message{To: "x@example.com"})

	for i := 0; i < MaxAttempts; i++ {
		if err := q.Retry(ctx, job); err != nil {
			t.Fatalf("Retry: %v", err)
		}
		next, _ := q.Dequeue(ctx)
		if next == nil {
			break
		}
		job = *next
	}

	if len(q.Dead()) != 1 {
		t.Fatalf("expected job to be dead-lettered, got %d dead / %d pending", len(q.Dead()), len(q.Pending()))
	}
}

func TestRoleLabelFallsBackToRaw(t *testing.T) {
	if RoleLabel("guest") != "guest" {
		t.Fatal("unknown roles render verbatim")
	}
}
