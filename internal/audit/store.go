package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"
)

// Store persists events in the reservation_history table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record appends one history row. A failed append is logged and dropped;
// it must never block or roll back the business transition that emitted it.
func (s *Store) Record(ctx context.Context, event Event) {
	if s == nil || s.db == nil {
		return
	}
	if event.ChangedAt.IsZero() {
		event.ChangedAt = time.Now()
	}

	const q = `
		INSERT INTO reservation_history (reservation_id, action, field, old_value, new_value, changed_by, changed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		event.ReservationID,
		event.Action,
		event.Field,
		event.OldValue,
		event.NewValue,
		event.ChangedBy,
		event.ChangedAt,
	)
	if err != nil {
		log.Ctx(ctx).Error().
			Err(err).
			Int64("reservation_id", event.ReservationID).
			Str("action", event.Action).
			Msg("Failed to record audit event")
	}
}

// ListByReservation returns the recorded history for one reservation,
// oldest first.
func (s *Store) ListByReservation(ctx context.Context, reservationID int64) ([]Event, error) {
	const q = `
		SELECT reservation_id, action, field, old_value, new_value, changed_by, changed_at
		FROM reservation_history
		WHERE reservation_id = ?
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var field, oldValue, newValue sql.NullString
		if err := rows.Scan(
			&event.ReservationID,
			&event.Action,
			&field,
			&oldValue,
			&newValue,
			&event.ChangedBy,
			&event.ChangedAt,
		); err != nil {
			return nil, err
		}
		event.Field = field.String
		event.OldValue = oldValue.String
		event.NewValue = newValue.String
		events = append(events, event)
	}
	return events, rows.Err()
}
