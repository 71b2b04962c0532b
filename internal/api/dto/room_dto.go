package dto

import (
	"time"

	"github.com/spec-kit/room-reservation/internal/domain"
)

// RoomRequest payload for creating or replacing a room.
type RoomRequest struct {
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Location  string `json:"location"`
	Equipment string `json:"equipment"`
	Available *bool  `json:"available"`
}

// AvailabilityRequest toggles a room.
type AvailabilityRequest struct {
	Available *bool `json:"available"`
}

// RoomResponse represents a room.
type RoomResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Location  string    `json:"location"`
	Equipment string    `json:"equipment"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRoomResponse maps a domain room.
func NewRoomResponse(r *domain.Room) RoomResponse {
	return RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Location:  r.Location,
		Equipment: r.Equipment,
		Available: r.Available,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
