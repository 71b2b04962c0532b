package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/spec-kit/room-reservation/internal/domain"
)

const uniqueViolation = "23505"

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx so repositories can run inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// wellFormedID reports whether id can match a UUID primary key. Postgres
// rejects malformed literals with 22P02 instead of returning no rows.
func wellFormedID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
}

func clockParam(c domain.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: c.Duration().Microseconds(), Valid: true}
}

func clockValue(t pgtype.Time) domain.Clock {
	return domain.ClockFromDuration(time.Duration(t.Microseconds) * time.Microsecond)
}

func dateParam(d time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.DateOf(d, nil), Valid: true}
}

func dateValue(d pgtype.Date) time.Time {
	return domain.DateOf(d.Time, nil)
}
