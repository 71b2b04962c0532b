package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/room-reservation/internal/config"
	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/events"
	"github.com/spec-kit/room-reservation/internal/notification"
	"github.com/spec-kit/room-reservation/internal/repository"
)

// enqueueTimeout bounds how long a request can wait on the mail queue.
const enqueueTimeout = 2 * time.Second

// Job kinds.
const (
	JobRegistration = "registration"
	JobApproval     = "approval"
	JobConfirmation = "confirmation"
)

// Notifier sends the fixed account and reservation emails.
type Notifier interface {
	NotifyRegistration(ctx context.Context, account *domain.Account) error
	NotifyApproval(ctx context.Context, account *domain.Account) error
	NotifyConfirmation(ctx context.Context, res *domain.Reservation, room *domain.Room, account *domain.Account) error
}

var _ Notifier = (*NotificationService)(nil)

// NotificationService turns domain events into queued emails. Failures are
// logged and never reach the operation that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	stores     repository.Stores
	queue      notification.Queue
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, stores repository.Stores, queue notification.Queue, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		stores:     stores,
		queue:      queue,
		logger:     loggerOrNop(logger),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountRegistered, n.handleAccountRegistered)
	n.dispatcher.Subscribe(events.EventAccountsApproved, n.handleAccountsApproved)
	n.dispatcher.Subscribe(events.EventReservationConfirmed, n.handleReservationConfirmed)
}

func (n *NotificationService) handleAccountRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountRegisteredPayload)
	if !ok {
		return n.badPayload(event)
	}
	account, err := n.stores.Accounts.GetByID(ctx, payload.AccountID)
	if err != nil {
		n.logger.Warn("registration email skipped", zap.String("account_id", payload.AccountID), zap.Error(err))
		return nil
	}
	_ = n.NotifyRegistration(ctx, account)
	return nil
}

func (n *NotificationService) handleAccountsApproved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountsApprovedPayload)
	if !ok {
		return n.badPayload(event)
	}
	for _, id := range payload.AccountIDs {
		account, err := n.stores.Accounts.GetByID(ctx, id)
		if err != nil {
			continue
		}
		_ = n.NotifyApproval(ctx, account)
	}
	return nil
}

func (n *NotificationService) handleReservationConfirmed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReservationChangedPayload)
	if !ok {
		return n.badPayload(event)
	}
	res, err := n.stores.Reservations.GetByID(ctx, payload.ReservationID)
	if err != nil {
		n.logger.Warn("confirmation email skipped", zap.String("reservation_id", payload.ReservationID), zap.Error(err))
		return nil
	}
	room, err := n.stores.Rooms.GetByID(ctx, res.RoomID)
	if err != nil {
		n.logger.Warn("confirmation email skipped", zap.String("room_id", res.RoomID), zap.Error(err))
		return nil
	}
	account, err := n.stores.Accounts.GetByID(ctx, res.AccountID)
	if err != nil {
		n.logger.Warn("confirmation email skipped", zap.String("account_id", res.AccountID), zap.Error(err))
		return nil
	}
	_ = n.NotifyConfirmation(ctx, res, room, account)
	return nil
}

// NotifyRegistration queues the awaiting-approval email.
func (n *NotificationService) NotifyRegistration(ctx context.Context, account *domain.Account) error {
	return n.enqueue(ctx, JobRegistration, notification.RegistrationMessage(n.cfg.EmailFrom, account))
}

// NotifyApproval queues the account-active email.
func (n *NotificationService) NotifyApproval(ctx context.Context, account *domain.Account) error {
	return n.enqueue(ctx, JobApproval, notification.ApprovalMessage(n.cfg.EmailFrom, account))
}

// NotifyConfirmation queues the reservation-confirmed email.
func (n *NotificationService) NotifyConfirmation(ctx context.Context, res *domain.Reservation, room *domain.Room, account *domain.Account) error {
	return n.enqueue(ctx, JobConfirmation, notification.ConfirmationMessage(n.cfg.EmailFrom, res, room, account))
}

func (n *NotificationService) enqueue(ctx context.Context, kind string, msg notification.Message) error {
	if n.queue == nil || strings.TrimSpace(msg.To) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()

	job := notification.NewJob(kind, msg)
	if err := n.queue.Enqueue(ctx, job); err != nil {
		n.logger.Warn("enqueue email failed", zap.String("kind", kind), zap.String("to", msg.To), zap.Error(err))
		return err
	}
	n.logger.Debug("email queued", zap.String("job_id", job.ID), zap.String("kind", kind))
	return nil
}

func (n *NotificationService) badPayload(event events.Event) error {
	return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
}
