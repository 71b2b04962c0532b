package events

import (
	"time"

	"github.com/spec-kit/room-reservation/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered    EventType = "account_registered"
	EventAccountsApproved     EventType = "accounts_approved"
	EventReservationSubmitted EventType = "reservation_submitted"
	EventReservationConfirmed EventType = "reservation_confirmed"
	EventReservationRejected  EventType = "reservation_rejected"
	EventReservationCancelled EventType = "reservation_cancelled"
)

// Event represents a domain event emitted by services after a committed change.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	AccountID string      `json:"account_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

// AccountsApprovedPayload payload.
type AccountsApprovedPayload struct {
	AccountIDs []string `json:"account_ids"`
	Count      int      `json:"count"`
}

// ReservationChangedPayload is shared by every reservation event.
type ReservationChangedPayload struct {
	ReservationID string                   `json:"reservation_id"`
	RoomID        string                   `json:"room_id"`
	AccountID     string                   `json:"account_id"`
	Date          string                   `json:"date"`
	Start         string                   `json:"start"`
	End           string                   `json:"end"`
	OldStatus     domain.ReservationStatus `json:"old_status,omitempty"`
	NewStatus     domain.ReservationStatus `json:"new_status"`
}

// ReservationPayload builds the payload for res after a move from oldStatus.
func ReservationPayload(res *domain.Reservation, oldStatus domain.ReservationStatus) ReservationChangedPayload {
	return ReservationChangedPayload{
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		AccountID:     res.AccountID,
		Date:          res.Date.Format(domain.DateLayout),
		Start:         res.Start.String(),
		End:           res.End.String(),
		OldStatus:     oldStatus,
		NewStatus:     res.Status,
	}
}
