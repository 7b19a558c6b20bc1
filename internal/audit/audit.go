// Package audit records reservation change events in an append-only
// history table. Recording is fire-and-forget from the engine's
// perspective: failures are logged, never propagated.
package audit

import (
	"context"
	"time"
)

const (
	ActionCreate       = "CREATE"
	ActionStatusChange = "STATUS_CHANGE"
	ActionDelete       = "DELETE"
)

// Event describes one meaningful mutation of a reservation.
type Event struct {
	ReservationID int64
	Action        string
	Field         string
	OldValue      string
	NewValue      string
	ChangedBy     string
	ChangedAt     time.Time
}

// Recorder receives change events emitted by the engine.
type Recorder interface {
	Record(ctx context.Context, event Event)
}
