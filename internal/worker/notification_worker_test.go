package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/room-reservation/internal/notification"
)

type recordingMailer struct {
	mu    sync.Mutex
	sent  []notification.Message
	fails int
}

func (m *recordingMailer) Send(_ context.Context, msg notification.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails > 0 {
		m.fails--
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestProcessOneDelivers(t *testing.T) {
	queue := notification.NewMemoryQueue()
	mailer := &recordingMailer{}
	w := NewEmailWorker(queue, mailer, zap.NewNop())
	ctx := context.Background()

	_ = queue.Enqueue(ctx, notification.NewJob("confirmation", notification.Message{To: "u@example.com"}))

	processed, err := w.ProcessOne(ctx)
	if err != nil || !processed {
		t.Fatalf("ProcessOne: %v %v", processed, err)
	}
	if mailer.count() != 1 {
		t.Fatalf("expected one email sent, got %d", mailer.count())
	}
	if processed, _ := w.ProcessOne(ctx); processed {
		t.Fatal("empty queue should report nothing processed")
	}
}

func TestProcessOneRetriesThenDeadLetters(t *testing.T) {
	queue := notification.NewMemoryQueue()
	mailer := &recordingMailer{fails: notification.MaxAttempts}
	w := NewEmailWorker(queue, mailer, zap.NewNop())
	ctx := context.Background()

	_ = queue.Enqueue(ctx, notification.NewJob("registration", notification.Message{To: "u@example.com"}))
	for i := 0; i < notification.MaxAttempts; i++ {
		if _, err := w.ProcessOne(ctx); err != nil {
			t.Fatalf("ProcessOne #%d: %v", i, err)
		}
	}

	if len(queue.Dead()) != 1 || len(queue.Pending()) != 0 {
		t.Fatalf("expected job dead-lettered, got %d dead / %d pending", len(queue.Dead()), len(queue.Pending()))
	}
	if mailer.count() != 0 {
		t.Fatalf("no email should have been delivered, got %d", mailer.count())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	queue := notification.NewMemoryQueue()
	mailer := &recordingMailer{}
	w := NewEmailWorker(queue, mailer, zap.NewNop())
	w.backoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	_ = queue.Enqueue(ctx, notification.NewJob("approval", notification.Message{To: "u@example.com"}))
	deadline := time.Now().Add(2 * time.Second)
	for mailer.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	if mailer.count() != 1 {
		t.Fatalf("expected the queued email to be sent, got %d", mailer.count())
	}
}
