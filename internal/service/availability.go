package service

import (
	"context"
	"time"

	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/repository"
)

// ConflictCheck describes a candidate slot for the availability checker.
type ConflictCheck struct {
	RoomID string
	Date   time.Time
	Start  domain.Clock
	End    domain.Clock
	// ExcludeID skips one reservation, used when a reservation is re-checked against the others.
	ExcludeID *string
	Policy    domain.ConflictPolicy
}

// hasConflict asks repo whether any reservation blocking under c.Policy
// overlaps c. It always reads the current store state.
func hasConflict(ctx context.Context, repo repository.ReservationRepository, c ConflictCheck) (bool, error) {
	return repo.ExistsOverlapping(ctx, repository.ConflictQuery{
		RoomID:    c.RoomID,
		Date:      domain.DateOf(c.Date, nil),
		Start:     c.Start,
		End:       c.End,
		Statuses:  c.Policy.BlockingStatuses(),
		ExcludeID: c.ExcludeID,
	})
}
