package repository

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/room-reservation/internal/domain"
)

// recordingDB captures statements instead of talking to Postgres.
type recordingDB struct {
	queries []string
	args    [][]any
	exists  bool
}

func (db *recordingDB) record(sql string, args []any) {
	db.queries = append(db.queries, sql)
	db.args = append(db.args, args)
}

func (db *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.record(sql, args)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (db *recordingDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.record(sql, args)
	return nil, errors.New("query not supported")
}

func (db *recordingDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.record(sql, args)
	return existsRow{value: db.exists}
}

type existsRow struct{ value bool }

func (r existsRow) Scan(dest ...any) error {
	if len(dest) != 1 {
		return errors.New("existsRow scans a single bool")
	}
	*dest[0].(*bool) = r.value
	return nil
}

const (
	roomA = "3b1f6c1e-8a57-4d0e-9d1b-6c9e1a2b3c4d"
	resA  = "9a4e2f10-5b6c-4d7e-8f90-a1b2c3d4e5f6"
)

func TestOverlapQuery(t *testing.T) {
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	base := ConflictQuery{
		RoomID:   roomA,
		Date:     date,
		Start:    domain.ClockAt(9, 0),
		End:      domain.ClockAt(10, 0),
		Statuses: domain.PolicyConfirm.BlockingStatuses(),
	}

	t.Run("without exclusion", func(t *testing.T) {
		query, args := overlapQuery(base)
		if len(args) != 5 {
			t.Fatalf("expected 5 args, got %d", len(args))
		}
		if strings.Contains(query, "id <>") {
			t.Fatalf("unexpected exclusion in %s", query)
		}
	})

	t.Run("with exclusion", func(t *testing.T) {
		q := base
		exclude := resA
		q.ExcludeID = &exclude
		query, args := overlapQuery(q)

		for _, frag := range []string{
			"room_id=$1 AND date=$2",
			"start_time < $3 AND end_time > $4",
			"status = ANY($5::text[])",
			"AND id <> $6)",
		} {
			if !strings.Contains(query, frag) {
				t.Fatalf("query missing %q:\n%s", frag, query)
			}
		}
		want := []any{roomA, dateParam(date), clockParam(q.End), clockParam(q.Start), []string{"confirmed"}, resA}
		if !reflect.DeepEqual(args, want) {
			t.Fatalf("args = %#v, want %#v", args, want)
		}
	})

	t.Run("malformed exclusion is dropped", func(t *testing.T) {
		q := base
		exclude := "junk"
		q.ExcludeID = &exclude
		query, args := overlapQuery(q)
		if len(args) != 5 || strings.Contains(query, "id <>") {
			t.Fatalf("malformed exclude id must not reach the query: %d args", len(args))
		}
	})
}

func TestExistsOverlappingRunsQuery(t *testing.T) {
	db := &recordingDB{exists: true}
	repo := NewReservationRepository(db)

	found, err := repo.ExistsOverlapping(context.Background(), ConflictQuery{
		RoomID:   roomA,
		Date:     time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Start:    domain.ClockAt(9, 0),
		End:      domain.ClockAt(10, 0),
		Statuses: domain.PolicySubmit.BlockingStatuses(),
	})
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if len(db.queries) != 1 || !strings.Contains(db.queries[0], "SELECT EXISTS") {
		t.Fatalf("unexpected statements %v", db.queries)
	}
}

func TestMalformedIDsNeverReachPostgres(t *testing.T) {
	db := &recordingDB{}
	stores := NewStores(db)
	ctx := context.Background()

	checks := map[string]func() error{
		"reservation get": func() error { _, err := stores.Reservations.GetByID(ctx, "junk"); return err },
		"reservation lock": func() error {
			_, err := stores.Reservations.GetByIDForUpdate(ctx, "junk")
			return err
		},
		"reservation update": func() error {
			return stores.Reservations.UpdateStatus(ctx, &domain.Reservation{ID: "junk", Status: domain.StatusRejected})
		},
		"room get":          func() error { _, err := stores.Rooms.GetByID(ctx, "room-a"); return err },
		"room update":       func() error { return stores.Rooms.Update(ctx, &domain.Room{ID: "room-a", Name: "A"}) },
		"room availability": func() error { return stores.Rooms.SetAvailability(ctx, "room-a", false) },
		"account get":       func() error { _, err := stores.Accounts.GetByID(ctx, "42"); return err },
	}
	for name, call := range checks {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, pgx.ErrNoRows) {
				t.Fatalf("expected pgx.ErrNoRows, got %v", err)
			}
		})
	}

	found, err := stores.Reservations.ExistsOverlapping(ctx, ConflictQuery{RoomID: "room-a", Statuses: domain.PolicySubmit.BlockingStatuses()})
	if err != nil || found {
		t.Fatalf("malformed room should have no overlaps, got found=%v err=%v", found, err)
	}
	history, err := stores.History.ListByReservation(ctx, "junk")
	if err != nil || len(history) != 0 {
		t.Fatalf("history = %v err=%v", history, err)
	}
	rows, err := stores.Reservations.ListWithFilter(ctx, ReservationFilter{RoomID: strPtr("room-a")})
	if err != nil || len(rows) != 0 {
		t.Fatalf("list = %v err=%v", rows, err)
	}

	if len(db.queries) != 0 {
		t.Fatalf("malformed ids reached the database: %v", db.queries)
	}
}

func strPtr(s string) *string { return &s }
