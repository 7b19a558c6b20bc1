package booking

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/nicolaspreciadodev/gosport/internal/audit"
)

// Engine owns the reservation lifecycle: it decides whether a slot is
// free, commits new reservations conflict-free, drives state transitions,
// and reconciles expired reservations. It holds no state of its own
// beyond in-process create serialization; the store is the single shared
// mutable resource.
type Engine struct {
	store       ReservationStore
	courts      CourtDirectory
	users       UserDirectory
	checker     *AvailabilityChecker
	audit       audit.Recorder
	notifier    Notifier
	autoConfirm bool
	clock       Clock
	createLocks *slotLocks
}

// EngineConfig wires the engine's collaborators. Audit and Notifier are
// optional; a nil recorder or notifier disables that side effect.
type EngineConfig struct {
	Store    ReservationStore
	Courts   CourtDirectory
	Users    UserDirectory
	Audit    audit.Recorder
	Notifier Notifier
	// AutoConfirmOnCreate books new reservations as CONFIRMED instead of
	// PENDING. Defaults to the pending-then-confirm flow when false.
	AutoConfirmOnCreate bool
	// Clock overrides time for tests; nil uses the system clock.
	Clock Clock
}

func NewEngine(cfg EngineConfig) *Engine {
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &Engine{
		store:       cfg.Store,
		courts:      cfg.Courts,
		users:       cfg.Users,
		checker:     NewAvailabilityChecker(cfg.Store),
		audit:       cfg.Audit,
		notifier:    cfg.Notifier,
		autoConfirm: cfg.AutoConfirmOnCreate,
		clock:       clock,
		createLocks: newSlotLocks(),
	}
}

// Checker exposes the engine's availability checker for read-only callers.
func (e *Engine) Checker() *AvailabilityChecker {
	return e.checker
}

// CreateParams describes a booking request.
type CreateParams struct {
	RequesterID     int64
	CourtID         int64
	Date            string
	StartMinute     int
	DurationMinutes int
	PriceCents      int64
}

func (p CreateParams) validate() error {
	if !ValidDate(p.Date) {
		return fmt.Errorf("%w: date %q is not a calendar day", ErrInvalidSlot, p.Date)
	}
	if p.StartMinute < 0 || p.StartMinute >= MinutesPerDay {
		return fmt.Errorf("%w: start minute %d out of range", ErrInvalidSlot, p.StartMinute)
	}
	if p.DurationMinutes < SlotGranularityMinutes || p.DurationMinutes%SlotGranularityMinutes != 0 {
		return fmt.Errorf("%w: duration %d is not a positive multiple of %d minutes", ErrInvalidSlot, p.DurationMinutes, SlotGranularityMinutes)
	}
	if p.StartMinute+p.DurationMinutes > MinutesPerDay {
		return fmt.Errorf("%w: slot crosses midnight", ErrInvalidSlot)
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidSlot)
	}
	return nil
}

// CreateReservation books a slot. The availability check before the
// commit is an optimistic fast path; the store re-validates inside the
// conditional commit while creates for the same (court, date) are
// serialized, so a losing race surfaces ErrSlotUnavailable and writes
// nothing.
func (e *Engine) CreateReservation(ctx context.Context, params CreateParams) (*Reservation, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	court, err := e.courts.GetCourt(ctx, params.CourtID)
	if err != nil {
		return nil, err
	}
	if !court.Active {
		return nil, ErrCourtNotFound
	}

	user, err := e.users.GetUser(ctx, params.RequesterID)
	if err != nil {
		return nil, err
	}

	endMinute := params.StartMinute + params.DurationMinutes

	available, err := e.checker.IsAvailable(ctx, params.CourtID, params.Date, params.StartMinute, endMinute, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrSlotUnavailable
	}

	status := StatusPending
	if e.autoConfirm {
		status = StatusConfirmed
	}

	now := e.clock.Now()
	reservation := &Reservation{
		BookingCode:     nextBookingCode(),
		UserID:          user.ID,
		CourtID:         court.ID,
		Date:            params.Date,
		StartMinute:     params.StartMinute,
		EndMinute:       endMinute,
		DurationMinutes: params.DurationMinutes,
		PriceCents:      params.PriceCents,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       user.Email,
		UpdatedBy:       user.Email,
	}

	lock := e.createLocks.acquire(court.ID, params.Date)
	err = e.store.CreateConflictFree(ctx, reservation)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	e.recordAudit(ctx, audit.Event{
		ReservationID: reservation.ID,
		Action:        audit.ActionCreate,
		Field:         "status",
		NewValue:      string(reservation.Status),
		ChangedBy:     user.Email,
		ChangedAt:     now,
	})
	e.notifyConfirmed(ctx, *reservation, *court, *user)

	return reservation, nil
}

// MayCancel reports whether principal may cancel the reservation: the
// owning requester or an administrator. Pure predicate; session and role
// management belong to the caller.
func MayCancel(reservation *Reservation, principal Principal) bool {
	return principal.IsAdmin() || reservation.UserID == principal.UserID
}

// CancelReservation transitions PENDING or CONFIRMED to CANCELLED. The
// cancellation email is best-effort and never rolls the transition back.
func (e *Engine) CancelReservation(ctx context.Context, id int64, principal Principal) (*Reservation, error) {
	reservation, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !MayCancel(reservation, principal) {
		return nil, ErrUnauthorized
	}
	if !reservation.Status.CanBeCancelled() {
		return nil, ErrInvalidTransition
	}

	updated, err := e.applyTransition(ctx, reservation, StatusCancelled, principal.Email)
	if err != nil {
		return nil, err
	}

	e.notifyCancelled(ctx, *updated)
	return updated, nil
}

// ChangeStatus sets an arbitrary target state under the same
// transition-legality rules. Administrative operation; always attributed
// to the acting principal.
func (e *Engine) ChangeStatus(ctx context.Context, id int64, target Status, principal Principal) (*Reservation, error) {
	if _, ok := ParseStatus(string(target)); !ok {
		return nil, ErrInvalidTransition
	}
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}

	reservation, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reservation.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	return e.applyTransition(ctx, reservation, target, principal.Email)
}

// applyTransition commits a single state change with an optimistic check
// against the state the caller observed. A stale observation fails as
// ErrInvalidTransition instead of clobbering a concurrent transition.
func (e *Engine) applyTransition(ctx context.Context, reservation *Reservation, target Status, changedBy string) (*Reservation, error) {
	now := e.clock.Now()
	applied, err := e.store.UpdateStatus(ctx, reservation.ID, reservation.Status, target, changedBy, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrInvalidTransition
	}

	e.recordAudit(ctx, audit.Event{
		ReservationID: reservation.ID,
		Action:        audit.ActionStatusChange,
		Field:         "status",
		OldValue:      string(reservation.Status),
		NewValue:      string(target),
		ChangedBy:     changedBy,
		ChangedAt:     now,
	})

	updated := *reservation
	updated.Status = target
	updated.UpdatedAt = now
	updated.UpdatedBy = changedBy
	return &updated, nil
}

// DeleteReservation physically removes a reservation. Administrative
// escape hatch outside the state machine.
func (e *Engine) DeleteReservation(ctx context.Context, id int64, principal Principal) error {
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	reservation, err := e.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	e.recordAudit(ctx, audit.Event{
		ReservationID: reservation.ID,
		Action:        audit.ActionDelete,
		Field:         "status",
		OldValue:      string(reservation.Status),
		ChangedBy:     principal.Email,
		ChangedAt:     e.clock.Now(),
	})
	return nil
}

// ListOccupiedSlots returns the ordered [start, end) intervals occupied
// on (courtID, date). Cancelled reservations free their slot and are
// excluded; completed ones still render as occupied history.
func (e *Engine) ListOccupiedSlots(ctx context.Context, courtID int64, date string) ([]Slot, error) {
	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: date %q is not a calendar day", ErrInvalidSlot, date)
	}
	reservations, err := e.store.ListByCourtAndDate(ctx, courtID, date)
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, len(reservations))
	for _, reservation := range reservations {
		if reservation.Status == StatusCancelled {
			continue
		}
		slots = append(slots, Slot{StartMinute: reservation.StartMinute, EndMinute: reservation.EndMinute})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartMinute < slots[j].StartMinute })
	return slots, nil
}

// ListByRequester returns all reservations owned by userID.
func (e *Engine) ListByRequester(ctx context.Context, userID int64) ([]Reservation, error) {
	return e.store.ListByUser(ctx, userID)
}

// ListFiltered returns an administrative page of reservations.
func (e *Engine) ListFiltered(ctx context.Context, filter ReservationFilter) ([]Reservation, error) {
	return e.store.ListFiltered(ctx, filter)
}

// GetReservation fetches one reservation by id.
func (e *Engine) GetReservation(ctx context.Context, id int64) (*Reservation, error) {
	return e.store.Get(ctx, id)
}

// CompleteExpiredReservations transitions every active reservation dated
// strictly before asOf to COMPLETED, attributed to the system principal.
// Idempotent: a second run for the same asOf finds nothing to complete.
// A failure on one reservation is logged and skipped; the returned count
// is the number actually completed.
func (e *Engine) CompleteExpiredReservations(ctx context.Context, asOf string) (int, error) {
	if !ValidDate(asOf) {
		return 0, fmt.Errorf("%w: date %q is not a calendar day", ErrInvalidSlot, asOf)
	}

	expired, err := e.store.ListExpiredActive(ctx, asOf)
	if err != nil {
		return 0, err
	}

	logger := log.Ctx(ctx)
	completed := 0
	for i := range expired {
		reservation := &expired[i]
		if _, err := e.applyTransition(ctx, reservation, StatusCompleted, SystemPrincipal.Email); err != nil {
			logger.Error().
				Err(err).
				Int64("reservation_id", reservation.ID).
				Str("booking_code", reservation.BookingCode).
				Msg("Failed to complete expired reservation")
			continue
		}
		completed++
	}
	return completed, nil
}

// DashboardStats aggregates counts and revenue for the admin dashboard.
type DashboardStats struct {
	TotalReservations int64
	Pending           int64
	Confirmed         int64
	Cancelled         int64
	Completed         int64
	Today             int64
	RevenueTotalCents int64
	RevenueMonthCents int64
}

// Stats computes dashboard aggregates as of the engine's clock.
func (e *Engine) Stats(ctx context.Context) (*DashboardStats, error) {
	now := e.clock.Now()
	today := now.Format(DateLayout)

	stats := &DashboardStats{}
	var err error

	byStatus := []struct {
		status Status
		dest   *int64
	}{
		{StatusPending, &stats.Pending},
		{StatusConfirmed, &stats.Confirmed},
		{StatusCancelled, &stats.Cancelled},
		{StatusCompleted, &stats.Completed},
	}
	for _, entry := range byStatus {
		if *entry.dest, err = e.store.CountByStatus(ctx, entry.status); err != nil {
			return nil, err
		}
	}
	stats.TotalReservations = stats.Pending + stats.Confirmed + stats.Cancelled + stats.Completed

	if stats.Today, err = e.store.CountByDate(ctx, today); err != nil {
		return nil, err
	}
	if stats.RevenueTotalCents, err = e.store.RevenueTotalCents(ctx); err != nil {
		return nil, err
	}
	if stats.RevenueMonthCents, err = e.store.RevenueMonthCents(ctx, now.Year(), now.Month()); err != nil {
		return nil, err
	}
	return stats, nil
}

func (e *Engine) recordAudit(ctx context.Context, event audit.Event) {
	if e.audit == nil {
		return
	}
	e.audit.Record(ctx, event)
}

func (e *Engine) notifyConfirmed(ctx context.Context, reservation Reservation, court Court, user User) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.ReservationConfirmed(ctx, reservation, court, user); err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Str("booking_code", reservation.BookingCode).
			Msg("Confirmation notification failed")
	}
}

func (e *Engine) notifyCancelled(ctx context.Context, reservation Reservation) {
	if e.notifier == nil {
		return
	}
	court, err := e.courts.GetCourt(ctx, reservation.CourtID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("court_id", reservation.CourtID).Msg("Cancellation notification skipped: court lookup failed")
		return
	}
	user, err := e.users.GetUser(ctx, reservation.UserID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("user_id", reservation.UserID).Msg("Cancellation notification skipped: user lookup failed")
		return
	}
	if err := e.notifier.ReservationCancelled(ctx, reservation, *court, *user); err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Str("booking_code", reservation.BookingCode).
			Msg("Cancellation notification failed")
	}
}
