package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/room-reservation/internal/config"
	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/events"
	"github.com/spec-kit/room-reservation/internal/observability"
	"github.com/spec-kit/room-reservation/internal/repository"
	apperrors "github.com/spec-kit/room-reservation/pkg/util"
)

// ReservationService admits reservations and drives their lifecycle.
type ReservationService struct {
	tx         repository.TxManager
	stores     repository.Stores
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	booking    config.BookingConfig
	loc        *time.Location
	now        func() time.Time
}

// ReservationDependencies bundles collaborators for the reservation service.
type ReservationDependencies struct {
	TxManager  repository.TxManager
	Stores     repository.Stores
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Booking    config.BookingConfig
	// Location decides which calendar day is today. Defaults to UTC.
	Location *time.Location
	Now      func() time.Time
}

// SubmitInput describes a booking request.
type SubmitInput struct {
	RoomID string
	Date   time.Time
	Start  domain.Clock
	End    domain.Clock
}

// BatchSkip names an item a batch operation left untouched.
type BatchSkip struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult reports the outcome of a batch confirm or reject.
type BatchResult struct {
	Processed []string    `json:"processed"`
	Skipped   []BatchSkip `json:"skipped"`
}

// ListInput pages through reservations.
type ListInput struct {
	Statuses []domain.ReservationStatus
	Limit    int
	Offset   int
}

// NewReservationService constructs the service.
func NewReservationService(deps ReservationDependencies) *ReservationService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		tx:         deps.TxManager,
		stores:     deps.Stores,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
		metrics:    deps.Metrics,
		booking:    deps.Booking,
		loc:        loc,
		now:        now,
	}
}

// HasConflict reports whether the slot collides with a reservation that blocks under c.Policy.
func (s *ReservationService) HasConflict(ctx context.Context, c ConflictCheck) (bool, error) {
	return hasConflict(ctx, s.stores.Reservations, c)
}

// Submit creates a pending reservation for actor.
func (s *ReservationService) Submit(ctx context.Context, actor domain.Actor, input SubmitInput) (*domain.Reservation, error) {
	if !actor.Approved {
		return nil, domain.ErrPendingApproval
	}
	if err := s.validateSlot(input); err != nil {
		s.metrics.RecordAdmission("submit", apperrors.ToDomainError(err).Code)
		return nil, err
	}

	date := domain.DateOf(input.Date, nil)
	res := &domain.Reservation{
		RoomID:    input.RoomID,
		AccountID: actor.AccountID,
		Date:      date,
		Start:     input.Start,
		End:       input.End,
		Status:    domain.StatusPending,
	}

	err := s.tx.WithinSlotLock(ctx, input.RoomID, date, func(ctx context.Context, st repository.Stores) error {
		room, err := st.Rooms.GetByID(ctx, input.RoomID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("room", nil)
			}
			return err
		}
		if !room.Available {
			return domain.ErrRoomUnavailable
		}
		conflict, err := hasConflict(ctx, st.Reservations, ConflictCheck{
			RoomID: input.RoomID,
			Date:   date,
			Start:  input.Start,
			End:    input.End,
			Policy: domain.PolicySubmit,
		})
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrSchedulingConflict
		}
		if err := st.Reservations.Create(ctx, res); err != nil {
			return err
		}
		return recordHistory(ctx, st, res, actor, nil, "submitted")
	})
	if err != nil {
		s.metrics.RecordAdmission("submit", apperrors.ToDomainError(err).Code)
		return nil, err
	}

	s.metrics.RecordAdmission("submit", "admitted")
	s.logger.Info("reservation submitted",
		zap.String("reservation_id", res.ID),
		zap.String("room_id", res.RoomID),
		zap.String("account_id", res.AccountID),
		zap.String("date", res.Date.Format(domain.DateLayout)),
		zap.Stringer("start", res.Start),
		zap.Stringer("end", res.End))
	s.publish(ctx, events.EventReservationSubmitted, actor, res, "")
	return res, nil
}

func (s *ReservationService) validateSlot(input SubmitInput) error {
	if input.Start >= input.End {
		return domain.ErrInvalidInterval
	}
	today := domain.DateOf(s.now(), s.loc)
	if domain.DateOf(input.Date, nil).Before(today) {
		return domain.ErrPastDate
	}
	if s.booking.Enabled() {
		open := domain.ClockAt(s.booking.OpenHour, 0)
		closing := domain.ClockAt(s.booking.CloseHour, 0)
		if input.Start < open || input.End > closing {
			return domain.ErrOutsideOpeningHours
		}
	}
	return nil
}

// Confirm moves a pending reservation to confirmed when no confirmed
// reservation overlaps it.
func (s *ReservationService) Confirm(ctx context.Context, admin domain.Actor, id string) (*domain.Reservation, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	res, err := s.confirmOne(ctx, admin, id)
	if err != nil {
		s.metrics.RecordAdmission("confirm", apperrors.ToDomainError(err).Code)
		return nil, err
	}
	s.metrics.RecordAdmission("confirm", "admitted")
	return res, nil
}

// ConfirmBatch confirms ids one at a time. Items that cannot be confirmed are
// skipped; only infrastructure failures abort the batch.
func (s *ReservationService) ConfirmBatch(ctx context.Context, admin domain.Actor, ids []string) (BatchResult, error) {
	if err := requireAdmin(admin); err != nil {
		return BatchResult{}, err
	}
	return s.runBatch(ctx, "confirm", ids, func(id string) error {
		_, err := s.confirmOne(ctx, admin, id)
		return err
	})
}

func (s *ReservationService) confirmOne(ctx context.Context, admin domain.Actor, id string) (*domain.Reservation, error) {
	current, err := s.stores.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "reservation")
	}

	var res *domain.Reservation
	err = s.tx.WithinSlotLock(ctx, current.RoomID, current.Date, func(ctx context.Context, st repository.Stores) error {
		locked, err := st.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "reservation")
		}
		if !locked.CanConfirm() {
			return domain.ErrInvalidTransition
		}
		conflict, err := hasConflict(ctx, st.Reservations, ConflictCheck{
			RoomID:    locked.RoomID,
			Date:      locked.Date,
			Start:     locked.Start,
			End:       locked.End,
			ExcludeID: &locked.ID,
			Policy:    domain.PolicyConfirm,
		})
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrSchedulingConflict
		}
		res = locked
		return s.transition(ctx, st, res, admin, domain.StatusConfirmed, "confirmed")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation confirmed", zap.String("reservation_id", res.ID), zap.String("admin_id", admin.AccountID))
	s.publish(ctx, events.EventReservationConfirmed, admin, res, domain.StatusPending)
	return res, nil
}

// Reject marks a reservation rejected regardless of its current status.
func (s *ReservationService) Reject(ctx context.Context, admin domain.Actor, id string) (*domain.Reservation, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	return s.rejectOne(ctx, admin, id)
}

// RejectBatch rejects ids one at a time, skipping unknown ids.
func (s *ReservationService) RejectBatch(ctx context.Context, admin domain.Actor, ids []string) (BatchResult, error) {
	if err := requireAdmin(admin); err != nil {
		return BatchResult{}, err
	}
	return s.runBatch(ctx, "reject", ids, func(id string) error {
		_, err := s.rejectOne(ctx, admin, id)
		return err
	})
}

func (s *ReservationService) rejectOne(ctx context.Context, admin domain.Actor, id string) (*domain.Reservation, error) {
	var (
		res *domain.Reservation
		old domain.ReservationStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st repository.Stores) error {
		locked, err := st.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "reservation")
		}
		res, old = locked, locked.Status
		return s.transition(ctx, st, res, admin, domain.StatusRejected, "rejected")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation rejected", zap.String("reservation_id", res.ID), zap.String("admin_id", admin.AccountID))
	s.publish(ctx, events.EventReservationRejected, admin, res, old)
	return res, nil
}

// Cancel lets the owner withdraw a pending reservation. The reservation moves
// to completed.
func (s *ReservationService) Cancel(ctx context.Context, actor domain.Actor, id string) (*domain.Reservation, error) {
	var res *domain.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st repository.Stores) error {
		locked, err := st.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "reservation")
		}
		if !locked.CanCancel(actor.AccountID) {
			return domain.ErrNotCancelable
		}
		res = locked
		res.Status = domain.StatusCompleted
		if err := st.Reservations.UpdateStatus(ctx, res); err != nil {
			return err
		}
		old := domain.StatusPending
		return recordHistory(ctx, st, res, actor, &old, "cancelled by owner")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation cancelled", zap.String("reservation_id", res.ID), zap.String("account_id", actor.AccountID))
	s.publish(ctx, events.EventReservationCancelled, actor, res, domain.StatusPending)
	return res, nil
}

// ListForAccount returns the actor's reservations, newest first.
func (s *ReservationService) ListForAccount(ctx context.Context, actor domain.Actor, input ListInput) ([]domain.Reservation, error) {
	accountID := actor.AccountID
	return s.stores.Reservations.ListWithFilter(ctx, repository.ReservationFilter{
		AccountID: &accountID,
		Statuses:  input.Statuses,
		Limit:     input.Limit,
		Offset:    input.Offset,
	})
}

// ListPending returns pending reservations, oldest first, for the admin work queue.
func (s *ReservationService) ListPending(ctx context.Context, admin domain.Actor, limit int) ([]domain.Reservation, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	return s.stores.Reservations.ListWithFilter(ctx, repository.ReservationFilter{
		Statuses: []domain.ReservationStatus{domain.StatusPending},
		Oldest:   true,
		Limit:    limit,
	})
}

// History returns the recorded transitions of a reservation.
func (s *ReservationService) History(ctx context.Context, admin domain.Actor, id string) ([]domain.ReservationHistory, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if _, err := s.stores.Reservations.GetByID(ctx, id); err != nil {
		return nil, notFound(err, "reservation")
	}
	return s.stores.History.ListByReservation(ctx, id)
}

// transition stamps res with status, persists it and records the move.
func (s *ReservationService) transition(ctx context.Context, st repository.Stores, res *domain.Reservation, actor domain.Actor, status domain.ReservationStatus, note string) error {
	old := res.Status
	processed := s.now().UTC()
	res.Status = status
	res.ProcessedAt = &processed
	if err := st.Reservations.UpdateStatus(ctx, res); err != nil {
		return err
	}
	return recordHistory(ctx, st, res, actor, &old, note)
}

func (s *ReservationService) runBatch(ctx context.Context, op string, ids []string, apply func(id string) error) (BatchResult, error) {
	result := BatchResult{Processed: []string{}, Skipped: []BatchSkip{}}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := apply(id)
		if err == nil {
			result.Processed = append(result.Processed, id)
			s.metrics.RecordAdmission(op, "admitted")
			continue
		}
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) {
			return result, err
		}
		s.metrics.RecordAdmission(op, domainErr.Code)
		s.logger.Debug("batch item skipped", zap.String("op", op), zap.String("reservation_id", id), zap.String("reason", domainErr.Code))
		result.Skipped = append(result.Skipped, BatchSkip{ID: id, Reason: domainErr.Code})
	}
	s.logger.Info("batch processed", zap.String("op", op), zap.Int("processed", len(result.Processed)), zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (s *ReservationService) publish(ctx context.Context, eventType events.EventType, actor domain.Actor, res *domain.Reservation, old domain.ReservationStatus) {
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    eventType,
		ActorID: actor.AccountID,
		Payload: events.ReservationPayload(res, old),
	})
}

func recordHistory(ctx context.Context, st repository.Stores, res *domain.Reservation, actor domain.Actor, old *domain.ReservationStatus, note string) error {
	var actorID *string
	if actor.AccountID != "" {
		id := actor.AccountID
		actorID = &id
	}
	return st.History.Create(ctx, &domain.ReservationHistory{
		ReservationID: res.ID,
		ActorID:       actorID,
		OldStatus:     old,
		NewStatus:     res.Status,
		Note:          note,
	})
}

// notFound maps a missing row to a NOT_FOUND domain error and passes everything else through.
func notFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
