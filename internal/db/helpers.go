package db

import (
	"fmt"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

// storeError wraps a driver failure so callers can match
// booking.ErrStoreUnavailable while keeping the underlying cause in the
// chain.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, booking.ErrStoreUnavailable, err)
}
