package booking

import (
	"context"
	"fmt"
)

// Overlaps reports whether [s1, e1) and [s2, e2) intersect. Half-open
// semantics: abutting intervals (e1 == s2 or e2 == s1) do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// AvailabilityChecker answers whether a candidate slot is free of active
// reservations. It is a pure read over the reservation store.
type AvailabilityChecker struct {
	store ReservationStore
}

func NewAvailabilityChecker(store ReservationStore) *AvailabilityChecker {
	return &AvailabilityChecker{store: store}
}

// IsAvailable reports whether [startMinute, endMinute) on (courtID, date)
// is free of PENDING and CONFIRMED reservations. excludeID skips one
// reservation, used when re-validating an edit against itself. The caller
// guarantees startMinute < endMinute.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, courtID int64, date string, startMinute, endMinute int, excludeID int64) (bool, error) {
	existing, err := c.store.ListActiveByCourtAndDate(ctx, courtID, date, excludeID)
	if err != nil {
		return false, fmt.Errorf("availability check: %w", err)
	}
	for _, reservation := range existing {
		if Overlaps(startMinute, endMinute, reservation.StartMinute, reservation.EndMinute) {
			return false, nil
		}
	}
	return true, nil
}
