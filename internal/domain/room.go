package domain

import "time"

// Room is a bookable conference room.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Location  string
	Equipment string
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
