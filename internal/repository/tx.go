package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/room-reservation/internal/domain"
)

// slotLockNamespace is the first key of the two-key advisory lock.
const slotLockNamespace = "reservation-slot"

// Stores groups repositories bound to one connection or transaction.
type Stores struct {
	Accounts     AccountRepository
	Rooms        RoomRepository
	Reservations ReservationRepository
	History      HistoryRepository
}

// NewStores binds every repository to db.
func NewStores(db DBTX) Stores {
	return Stores{
		Accounts:     NewAccountRepository(db),
		Rooms:        NewRoomRepository(db),
		Reservations: NewReservationRepository(db),
		History:      NewHistoryRepository(db),
	}
}

// TxManager runs units of work atomically.
type TxManager interface {
	// WithinTx runs fn in a transaction; any error rolls it back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
	// WithinSlotLock is WithinTx holding an exclusive lock on (roomID, date) for the
	// whole transaction, so check-then-write admission decisions for a slot serialize.
	WithinSlotLock(ctx context.Context, roomID string, date time.Time, fn func(ctx context.Context, s Stores) error) error
}

type pgTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager returns a Postgres TxManager.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgTxManager{pool: pool}
}

func (m *pgTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	return pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewStores(tx))
	})
}

func (m *pgTxManager) WithinSlotLock(ctx context.Context, roomID string, date time.Time, fn func(ctx context.Context, s Stores) error) error {
	return pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		const lock = `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`
		if _, err := tx.Exec(ctx, lock, slotLockNamespace, SlotKey(roomID, date)); err != nil {
			return err
		}
		return fn(ctx, NewStores(tx))
	})
}

// SlotKey identifies one room on one calendar date.
func SlotKey(roomID string, date time.Time) string {
	return roomID + "|" + domain.DateOf(date, nil).Format(domain.DateLayout)
}
