package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/spec-kit/room-reservation/internal/domain"
)

const reservationColumns = `id, room_id, account_id, date, start_time, end_time, status, created_at, processed_at`

// ConflictQuery selects reservations of one room and date in the given statuses overlapping [Start, End).
type ConflictQuery struct {
	RoomID    string
	Date      time.Time
	Start     domain.Clock
	End       domain.Clock
	Statuses  []domain.ReservationStatus
	ExcludeID *string
}

// ReservationFilter captures listing parameters.
type ReservationFilter struct {
	AccountID *string
	RoomID    *string
	Statuses  []domain.ReservationStatus
	// Oldest lists by date ascending instead of newest first.
	Oldest bool
	Limit  int
	Offset int
}

// ReservationRepository encapsulates reservation persistence.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, reservation *domain.Reservation) error
	ExistsOverlapping(ctx context.Context, q ConflictQuery) (bool, error)
	ListWithFilter(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, error)
	CountByStatus(ctx context.Context, status domain.ReservationStatus) (int, error)
}

type reservationRepository struct {
	db DBTX
}

// NewReservationRepository instantiates repository.
func NewReservationRepository(db DBTX) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	const query = `
        INSERT INTO reservations (room_id, account_id, date, start_time, end_time, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		reservation.RoomID,
		reservation.AccountID,
		dateParam(reservation.Date),
		clockParam(reservation.Start),
		clockParam(reservation.End),
		string(reservation.Status),
	).Scan(&reservation.ID, &reservation.CreatedAt)
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if !wellFormedID(id) {
		return nil, pgx.ErrNoRows
	}
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id=$1`
	return scanReservation(r.db.QueryRow(ctx, query, id))
}

func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Reservation, error) {
	if !wellFormedID(id) {
		return nil, pgx.ErrNoRows
	}
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id=$1 FOR UPDATE`
	return scanReservation(r.db.QueryRow(ctx, query, id))
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, reservation *domain.Reservation) error {
	if !wellFormedID(reservation.ID) {
		return pgx.ErrNoRows
	}
	const query = `UPDATE reservations SET status=$1, processed_at=$2 WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, string(reservation.Status), reservation.ProcessedAt, reservation.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reservationRepository) ExistsOverlapping(ctx context.Context, q ConflictQuery) (bool, error) {
	if !wellFormedID(q.RoomID) {
		return false, nil
	}
	query, args := overlapQuery(q)
	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// overlapQuery builds the EXISTS query. Intervals are half-open, so a slot
// ending exactly when another starts does not overlap it.
func overlapQuery(q ConflictQuery) (string, []any) {
	args := []any{q.RoomID, dateParam(q.Date), clockParam(q.End), clockParam(q.Start), statusStrings(q.Statuses)}
	query := `
        SELECT EXISTS (
            SELECT 1 FROM reservations
            WHERE room_id=$1 AND date=$2
              AND start_time < $3 AND end_time > $4
              AND status = ANY($5::text[])`
	if q.ExcludeID != nil && wellFormedID(*q.ExcludeID) {
		args = append(args, *q.ExcludeID)
		query += fmt.Sprintf(` AND id <> $%d`, len(args))
	}
	return query + `)`, args
}

func (r *reservationRepository) ListWithFilter(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, error) {
	for _, id := range []*string{filter.AccountID, filter.RoomID} {
		if id != nil && !wellFormedID(*id) {
			return nil, nil
		}
	}
	base := `SELECT ` + reservationColumns + ` FROM reservations`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		clauses = append(clauses, fmt.Sprintf("account_id=$%d", len(args)))
	}
	if filter.RoomID != nil {
		args = append(args, *filter.RoomID)
		clauses = append(clauses, fmt.Sprintf("room_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, statusStrings(filter.Statuses))
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d::text[])", len(args)))
	}

	order := "date DESC, start_time DESC"
	if filter.Oldest {
		order = "date ASC, start_time ASC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), order, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *reservation)
	}
	return result, rows.Err()
}

func (r *reservationRepository) CountByStatus(ctx context.Context, status domain.ReservationStatus) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE status=$1`, string(status)).Scan(&n)
	return n, err
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		reservation domain.Reservation
		date        pgtype.Date
		start, end  pgtype.Time
		status      string
	)
	if err := row.Scan(
		&reservation.ID,
		&reservation.RoomID,
		&reservation.AccountID,
		&date,
		&start,
		&end,
		&status,
		&reservation.CreatedAt,
		&reservation.ProcessedAt,
	); err != nil {
		return nil, err
	}
	reservation.Date = dateValue(date)
	reservation.Start = clockValue(start)
	reservation.End = clockValue(end)
	reservation.Status = domain.ReservationStatus(status)
	return &reservation, nil
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
