package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishRunsAllHandlersDespiteErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0

	d.Subscribe(EventReservationConfirmed, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventReservationConfirmed, func(context.Context, Event) error {
		calls++
		return nil
	})
	d.Subscribe(EventAccountRegistered, func(context.Context, Event) error {
		t.Fatal("handler for another event type must not run")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventReservationConfirmed})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined handler error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected both handlers to run, got %d", calls)
	}
}

func TestPublishWithoutListeners(t *testing.T) {
	if err := NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventReservationRejected}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	ran := false
	d.Subscribe(EventAccountsApproved, func(context.Context, Event) error {
		panic("template missing")
	})
	d.Subscribe(EventAccountsApproved, func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventAccountsApproved})
	if err == nil {
		t.Fatalf("expected panic to surface as an error")
	}
	if !ran {
		t.Fatalf("handler after the panicking one should still run")
	}
}
