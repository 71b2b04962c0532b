package domain

import "time"

// ReservationHistory is an immutable audit entry for a status change.
type ReservationHistory struct {
	ID            string
	ReservationID string
	ActorID       *string
	OldStatus     *ReservationStatus
	NewStatus     ReservationStatus
	Note          string
	CreatedAt     time.Time
}
