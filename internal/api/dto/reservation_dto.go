package dto

import (
	"time"

	"github.com/spec-kit/room-reservation/internal/domain"
)

// CreateReservationRequest payload. Date is YYYY-MM-DD, times are HH:MM.
type CreateReservationRequest struct {
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ReservationResponse represents a reservation.
type ReservationResponse struct {
	ID          string                   `json:"id"`
	RoomID      string                   `json:"room_id"`
	AccountID   string                   `json:"account_id"`
	Date        string                   `json:"date"`
	StartTime   string                   `json:"start_time"`
	EndTime     string                   `json:"end_time"`
	Status      domain.ReservationStatus `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
	ProcessedAt *time.Time               `json:"processed_at"`
}

// HistoryResponse is one recorded transition.
type HistoryResponse struct {
	ID        string                    `json:"id"`
	ActorID   *string                   `json:"actor_id"`
	OldStatus *domain.ReservationStatus `json:"old_status"`
	NewStatus domain.ReservationStatus  `json:"new_status"`
	Note      string                    `json:"note"`
	CreatedAt time.Time                 `json:"created_at"`
}

// AvailabilityResponse reports whether a slot can be booked.
type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// NewReservationResponse maps a domain reservation.
func NewReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:          r.ID,
		RoomID:      r.RoomID,
		AccountID:   r.AccountID,
		Date:        r.Date.Format(domain.DateLayout),
		StartTime:   r.Start.String(),
		EndTime:     r.End.String(),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		ProcessedAt: r.ProcessedAt,
	}
}

// NewReservationResponses maps a slice.
func NewReservationResponses(items []domain.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(items))
	for i := range items {
		out = append(out, NewReservationResponse(&items[i]))
	}
	return out
}

// NewHistoryResponses maps history entries.
func NewHistoryResponses(entries []domain.ReservationHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryResponse{
			ID:        e.ID,
			ActorID:   e.ActorID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
