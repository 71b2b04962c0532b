package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/room-reservation/internal/notification"
	"github.com/spec-kit/room-reservation/internal/service"
)

// idleBackoff is how long the worker sleeps after a queue error or an empty
// non-blocking dequeue.
const idleBackoff = time.Second

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// EmailWorker drains the mail queue.
type EmailWorker struct {
	queue   notification.Queue
	mailer  notification.Mailer
	logger  *zap.Logger
	backoff time.Duration
}

// NewEmailWorker creates a worker.
func NewEmailWorker(queue notification.Queue, mailer notification.Mailer, logger *zap.Logger) *EmailWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailWorker{queue: queue, mailer: mailer, logger: logger, backoff: idleBackoff}
}

// Run processes jobs until ctx is cancelled.
func (w *EmailWorker) Run(ctx context.Context) {
	w.logger.Info("email worker started")
	defer w.logger.Info("email worker stopped")

	for ctx.Err() == nil {
		processed, err := w.ProcessOne(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Warn("email queue error", zap.Error(err))
		}
		if processed {
			continue
		}
		select {
		case <-ctx.Done():
		case <-time.After(w.backoff):
		}
	}
}

// ProcessOne delivers at most one job. It reports whether a job was taken.
func (w *EmailWorker) ProcessOne(ctx context.Context) (bool, error) {
	job, err := w.queue.Dequeue(ctx)
	if err != nil || job == nil {
		return false, err
	}

	if err := w.mailer.Send(ctx, job.Message); err != nil {
		w.logger.Warn("email delivery failed",
			zap.String("job_id", job.ID),
			zap.String("kind", job.Kind),
			zap.Int("attempt", job.Attempt),
			zap.Error(err))
		if rerr := w.queue.Retry(ctx, *job); rerr != nil {
			return true, rerr
		}
		return true, nil
	}
	w.logger.Info("email sent", zap.String("job_id", job.ID), zap.String("kind", job.Kind), zap.String("to", job.Message.To))
	return true, nil
}
