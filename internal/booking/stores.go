package booking

import (
	"context"
	"time"
)

// ReservationFilter narrows an administrative listing. Zero values mean
// "no constraint"; DateFrom/DateTo are inclusive calendar days.
type ReservationFilter struct {
	Status   Status
	CourtID  int64
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}

// ReservationStore is the durable record of all reservations. The engine
// requires CreateConflictFree to re-validate availability atomically with
// the insert, and UpdateStatus to apply a transition only when the stored
// state still matches the expected one.
type ReservationStore interface {
	Get(ctx context.Context, id int64) (*Reservation, error)
	ListByCourtAndDate(ctx context.Context, courtID int64, date string) ([]Reservation, error)
	// ListActiveByCourtAndDate returns PENDING and CONFIRMED reservations
	// for (courtID, date), excluding excludeID when non-zero.
	ListActiveByCourtAndDate(ctx context.Context, courtID int64, date string, excludeID int64) ([]Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]Reservation, error)
	ListFiltered(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	// ListExpiredActive returns active reservations dated strictly before asOf.
	ListExpiredActive(ctx context.Context, asOf string) ([]Reservation, error)
	// CreateConflictFree inserts the reservation only if no active
	// reservation overlaps it at commit time, assigning its id. A losing
	// race returns ErrSlotUnavailable and writes nothing.
	CreateConflictFree(ctx context.Context, reservation *Reservation) error
	// UpdateStatus applies from -> to and returns false when the stored
	// status no longer equals from.
	UpdateStatus(ctx context.Context, id int64, from, to Status, updatedBy string, updatedAt time.Time) (bool, error)
	Delete(ctx context.Context, id int64) error

	CountByStatus(ctx context.Context, status Status) (int64, error)
	CountByDate(ctx context.Context, date string) (int64, error)
	// RevenueTotalCents sums price over non-cancelled reservations.
	RevenueTotalCents(ctx context.Context) (int64, error)
	RevenueMonthCents(ctx context.Context, year int, month time.Month) (int64, error)
}

// CourtDirectory exposes read-only court reference data.
type CourtDirectory interface {
	GetCourt(ctx context.Context, id int64) (*Court, error)
	ListCourts(ctx context.Context) ([]Court, error)
}

// UserDirectory resolves requester references. The engine never assumes a
// referenced user is pre-loaded.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*User, error)
}

// Notifier delivers best-effort reservation notifications. Implementations
// own their error handling; a failed notification never unwinds the
// committed state change.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, reservation Reservation, court Court, user User) error
	ReservationCancelled(ctx context.Context, reservation Reservation, court Court, user User) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
