package booking

import "errors"

var (
	// ErrCourtNotFound means the referenced court does not exist or is
	// inactive. Fatal to the operation; not retryable.
	ErrCourtNotFound = errors.New("court not found")

	// ErrUserNotFound means the referenced requester does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrReservationNotFound means the referenced reservation id is unknown.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrSlotUnavailable means the candidate interval overlaps an existing
	// active reservation. The caller must choose a different slot; the
	// engine never retries on its behalf.
	ErrSlotUnavailable = errors.New("time slot is not available")

	// ErrInvalidTransition means the requested state change violates the
	// reservation state machine.
	ErrInvalidTransition = errors.New("invalid reservation status transition")

	// ErrUnauthorized means the acting principal lacks rights for the
	// operation.
	ErrUnauthorized = errors.New("principal is not allowed to perform this operation")

	// ErrInvalidSlot means the requested slot fails input preconditions
	// (malformed date, bad granularity, inverted interval). This is a
	// caller bug, not a business conflict.
	ErrInvalidSlot = errors.New("invalid reservation slot")

	// ErrStoreUnavailable means the underlying store failed transiently.
	// Callers may retry the whole operation; the conditional commit keeps
	// a retry safe.
	ErrStoreUnavailable = errors.New("reservation store unavailable")
)
