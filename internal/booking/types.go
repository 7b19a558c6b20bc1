// Package booking implements the reservation conflict-resolution and
// lifecycle engine: availability checking, the reservation state machine,
// and reconciliation of expired reservations.
package booking

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used throughout the engine.
// The system operates in a single local time zone; dates never carry one.
const DateLayout = "2006-01-02"

const (
	// SlotGranularityMinutes is the minimum bookable unit.
	SlotGranularityMinutes = 30
	// MinutesPerDay bounds a slot to a single calendar day.
	MinutesPerDay = 24 * 60
)

// Court is read-only reference data owned by the court directory.
type Court struct {
	ID               int64
	Name             string
	Sport            string
	HourlyPriceCents int64
	Active           bool
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User identifies a requester. The engine consumes user records for
// ownership checks and notification addressing only.
type User struct {
	ID     int64
	Email  string
	Name   string
	Role   string
	Active bool
}

// Principal is the identity acting on a reservation. Authentication and
// session handling are the caller's concern; the engine only consumes the
// resolved identity.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// SystemPrincipal attributes reconciliation-sweep transitions.
var SystemPrincipal = Principal{Email: "SYSTEM", Role: RoleAdmin}

// Reservation is the central entity. EndMinute is computed once at
// creation (start + duration) and never recomputed; DurationMinutes is
// immutable after creation.
type Reservation struct {
	ID              int64
	BookingCode     string
	UserID          int64
	CourtID         int64
	Date            string
	StartMinute     int
	EndMinute       int
	DurationMinutes int
	PriceCents      int64
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
	UpdatedBy       string
}

// IsUpcoming reports whether the reservation's date is today or later.
func (r *Reservation) IsUpcoming(today string) bool {
	return r.Date >= today
}

// Slot is an occupied [start, end) interval on a court's day.
type Slot struct {
	StartMinute int
	EndMinute   int
}

// MinuteOfDay converts an "HH:MM" clock value to minutes from midnight.
func MinuteOfDay(clock string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	return h*60 + m, nil
}

// ClockOfMinute renders minutes from midnight as "HH:MM".
func ClockOfMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ValidDate reports whether date is a well-formed calendar day.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
