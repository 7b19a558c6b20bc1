package booking

import (
	"fmt"
	"sync/atomic"
	"time"
)

// codeCounter backs booking-code generation. Seeded from wall-clock
// milliseconds and bumped past any previously issued value, so codes are
// monotonic within a process; the store's UNIQUE constraint is the
// backstop across processes.
var codeCounter atomic.Int64

// nextBookingCode returns a fresh human-facing code of the form
// RES-<number>. A code is generated once per reservation and never
// reassigned.
func nextBookingCode() string {
	for {
		now := time.Now().UnixMilli()
		last := codeCounter.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if codeCounter.CompareAndSwap(last, next) {
			return fmt.Sprintf("RES-%d", next)
		}
	}
}
