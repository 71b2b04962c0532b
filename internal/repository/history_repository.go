package repository

import (
	"context"

	"github.com/spec-kit/room-reservation/internal/domain"
)

// HistoryRepository stores reservation audit entries.
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.ReservationHistory) error
	ListByReservation(ctx context.Context, reservationID string) ([]domain.ReservationHistory, error)
}

type historyRepository struct {
	db DBTX
}

// NewHistoryRepository builds repository.
func NewHistoryRepository(db DBTX) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, entry *domain.ReservationHistory) error {
	const query = `
        INSERT INTO reservation_history (reservation_id, actor_id, old_status, new_status, note)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	var oldStatus *string
	if entry.OldStatus != nil {
		s := string(*entry.OldStatus)
		oldStatus = &s
	}
	return r.db.QueryRow(ctx, query,
		entry.ReservationID,
		entry.ActorID,
		oldStatus,
		string(entry.NewStatus),
		entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *historyRepository) ListByReservation(ctx context.Context, reservationID string) ([]domain.ReservationHistory, error) {
	if !wellFormedID(reservationID) {
		return nil, nil
	}
	const query = `
        SELECT id, reservation_id, actor_id, old_status, new_status, note, created_at
        FROM reservation_history WHERE reservation_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReservationHistory
	for rows.Next() {
		var (
			entry     domain.ReservationHistory
			oldStatus *string
			newStatus string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.ReservationID,
			&entry.ActorID,
			&oldStatus,
			&newStatus,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if oldStatus != nil {
			s := domain.ReservationStatus(*oldStatus)
			entry.OldStatus = &s
		}
		entry.NewStatus = domain.ReservationStatus(newStatus)
		result = append(result, entry)
	}
	return result, rows.Err()
}
