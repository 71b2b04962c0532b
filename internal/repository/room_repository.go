package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/room-reservation/internal/domain"
)

const roomColumns = `id, name, capacity, location, equipment, available, created_at, updated_at`

// RoomRepository manages room persistence.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	ListAvailable(ctx context.Context) ([]domain.Room, error)
	ListAll(ctx context.Context) ([]domain.Room, error)
	Count(ctx context.Context) (int, error)
}

type roomRepository struct {
	db DBTX
}

// NewRoomRepository builds the repository.
func NewRoomRepository(db DBTX) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	const query = `
        INSERT INTO rooms (name, capacity, location, equipment, available)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		room.Name,
		room.Capacity,
		room.Location,
		room.Equipment,
		room.Available,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	if !wellFormedID(room.ID) {
		return pgx.ErrNoRows
	}
	const query = `
        UPDATE rooms SET name=$1, capacity=$2, location=$3, equipment=$4, available=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query,
		room.Name,
		room.Capacity,
		room.Location,
		room.Equipment,
		room.Available,
		room.ID,
	).Scan(&room.UpdatedAt)
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if !wellFormedID(id) {
		return nil, pgx.ErrNoRows
	}
	const query = `SELECT ` + roomColumns + ` FROM rooms WHERE id=$1`
	return scanRoom(r.db.QueryRow(ctx, query, id))
}

func (r *roomRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	if !wellFormedID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.db.Exec(ctx, `UPDATE rooms SET available=$1, updated_at=NOW() WHERE id=$2`, available, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) ListAvailable(ctx context.Context) ([]domain.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms WHERE available = TRUE ORDER BY name`
	return r.list(ctx, query)
}

func (r *roomRepository) ListAll(ctx context.Context) ([]domain.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms ORDER BY name`
	return r.list(ctx, query)
}

func (r *roomRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n)
	return n, err
}

func (r *roomRepository) list(ctx context.Context, query string) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *room)
	}
	return result, rows.Err()
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	if err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Capacity,
		&room.Location,
		&room.Equipment,
		&room.Available,
		&room.CreatedAt,
		&room.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &room, nil
}
