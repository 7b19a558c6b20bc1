package booking

// Status is a reservation lifecycle state. Display names belong to the
// presentation layer, not here.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// ParseStatus validates a raw status tag.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(raw), true
	}
	return "", false
}

// IsActive reports whether the reservation occupies its court. Only
// active reservations participate in the no-overlap invariant.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanBeCancelled reports whether a cancellation is legal from s.
func (s Status) CanBeCancelled() bool {
	return s.IsActive()
}

// CanTransitionTo reports whether the state machine permits s -> target.
// CANCELLED and COMPLETED are terminal.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return false
	}
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled || target == StatusCompleted
	case StatusConfirmed:
		return target == StatusCancelled || target == StatusCompleted
	}
	return false
}
