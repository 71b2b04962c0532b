package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReservationStatus enumerates lifecycle states for reservations.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusRejected  ReservationStatus = "rejected"
	// StatusCompleted is also the outcome of an owner cancellation.
	StatusCompleted ReservationStatus = "completed"
)

// DateLayout is the wire and storage layout of reservation dates.
const DateLayout = "2006-01-02"

// Clock is a wall-clock time of day with minute precision, stored as minutes since midnight.
type Clock int

// ParseClock parses "HH:MM" (or "HH:MM:SS" with zero seconds ignored).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock(h*60 + m), nil
}

// ClockAt builds a Clock from hour and minute.
func ClockAt(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Duration converts the clock to an offset from midnight.
func (c Clock) Duration() time.Duration {
	return time.Duration(c) * time.Minute
}

// ClockFromDuration converts an offset from midnight to a Clock, truncating seconds.
func ClockFromDuration(d time.Duration) Clock {
	return Clock(d / time.Minute)
}

// ParseDate parses a calendar date in DateLayout. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// DateOf returns the calendar date of t as observed in loc, as midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Reservation books a room for a time range on a single date.
type Reservation struct {
	ID          string
	RoomID      string
	AccountID   string
	Date        time.Time
	Start       Clock
	End         Clock
	Status      ReservationStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// Overlaps reports whether [start, end) intersects the reservation's interval.
// Touching boundaries do not overlap.
func (r *Reservation) Overlaps(start, end Clock) bool {
	return IntervalsOverlap(r.Start, r.End, start, end)
}

// OwnedBy reports whether accountID created the reservation.
func (r *Reservation) OwnedBy(accountID string) bool {
	return r.AccountID == accountID
}

// IntervalsOverlap reports whether [s1, e1) and [s2, e2) share any instant.
func IntervalsOverlap(s1, e1, s2, e2 Clock) bool {
	return s1 < e2 && e1 > s2
}

// ConflictPolicy selects which statuses block a candidate interval.
type ConflictPolicy int

const (
	// PolicySubmit blocks on pending and confirmed reservations.
	PolicySubmit ConflictPolicy = iota
	// PolicyConfirm blocks only on confirmed reservations.
	PolicyConfirm
)

// BlockingStatuses returns the statuses counted by the policy.
func (p ConflictPolicy) BlockingStatuses() []ReservationStatus {
	if p == PolicyConfirm {
		return []ReservationStatus{StatusConfirmed}
	}
	return []ReservationStatus{StatusPending, StatusConfirmed}
}

func (p ConflictPolicy) String() string {
	if p == PolicyConfirm {
		return "confirm"
	}
	return "submit"
}

// CanConfirm reports whether the reservation may move to confirmed.
func (r *Reservation) CanConfirm() bool {
	return r.Status == StatusPending
}

// CanCancel reports whether accountID may cancel the reservation.
func (r *Reservation) CanCancel(accountID string) bool {
	return r.OwnedBy(accountID) && r.Status == StatusPending
}
