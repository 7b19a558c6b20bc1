package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

// ReservationStore is the durable reservation record. It implements
// booking.ReservationStore, including the conflict-safe conditional
// commit the engine's create path depends on.
type ReservationStore struct {
	db *DB
}

func NewReservationStore(database *DB) *ReservationStore {
	return &ReservationStore{db: database}
}

const reservationColumns = `id, booking_code, user_id, court_id, date, start_minute, end_minute,
	duration_minutes, price_cents, status, created_at, updated_at, created_by, updated_by`

func scanReservation(row interface{ Scan(...any) error }) (*booking.Reservation, error) {
	var r booking.Reservation
	var status string
	err := row.Scan(
		&r.ID, &r.BookingCode, &r.UserID, &r.CourtID, &r.Date,
		&r.StartMinute, &r.EndMinute, &r.DurationMinutes, &r.PriceCents,
		&status, &r.CreatedAt, &r.UpdatedAt, &r.CreatedBy, &r.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	r.Status = booking.Status(status)
	return &r, nil
}

func (s *ReservationStore) queryReservations(ctx context.Context, query string, args ...any) ([]booking.Reservation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []booking.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *reservation)
	}
	return reservations, rows.Err()
}

func (s *ReservationStore) Get(ctx context.Context, id int64) (*booking.Reservation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	reservation, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, storeError("get reservation", err)
	}
	return reservation, nil
}

func (s *ReservationStore) GetByCode(ctx context.Context, bookingCode string) (*booking.Reservation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE booking_code = ?`, bookingCode)
	reservation, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, storeError("get reservation by code", err)
	}
	return reservation, nil
}

func (s *ReservationStore) ListByCourtAndDate(ctx context.Context, courtID int64, date string) ([]booking.Reservation, error) {
	reservations, err := s.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE court_id = ? AND date = ?
		 ORDER BY start_minute`,
		courtID, date,
	)
	if err != nil {
		return nil, storeError("list reservations by court and date", err)
	}
	return reservations, nil
}

func (s *ReservationStore) ListActiveByCourtAndDate(ctx context.Context, courtID int64, date string, excludeID int64) ([]booking.Reservation, error) {
	reservations, err := s.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE court_id = ? AND date = ? AND status IN (?, ?) AND id != ?
		 ORDER BY start_minute`,
		courtID, date, string(booking.StatusPending), string(booking.StatusConfirmed), excludeID,
	)
	if err != nil {
		return nil, storeError("list active reservations", err)
	}
	return reservations, nil
}

func (s *ReservationStore) ListByUser(ctx context.Context, userID int64) ([]booking.Reservation, error) {
	reservations, err := s.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE user_id = ?
		 ORDER BY date DESC, start_minute DESC`,
		userID,
	)
	if err != nil {
		return nil, storeError("list reservations by user", err)
	}
	return reservations, nil
}

const defaultListLimit = 50

func (s *ReservationStore) ListFiltered(ctx context.Context, filter booking.ReservationFilter) ([]booking.Reservation, error) {
	var conditions []string
	var args []any

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.CourtID != 0 {
		conditions = append(conditions, "court_id = ?")
		args = append(args, filter.CourtID)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.DateTo)
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY date DESC, start_minute DESC LIMIT ? OFFSET ?`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit, filter.Offset)

	reservations, err := s.queryReservations(ctx, query, args...)
	if err != nil {
		return nil, storeError("list reservations filtered", err)
	}
	return reservations, nil
}

func (s *ReservationStore) ListExpiredActive(ctx context.Context, asOf string) ([]booking.Reservation, error) {
	reservations, err := s.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE date < ? AND status IN (?, ?)
		 ORDER BY date, start_minute`,
		asOf, string(booking.StatusPending), string(booking.StatusConfirmed),
	)
	if err != nil {
		return nil, storeError("list expired reservations", err)
	}
	return reservations, nil
}

// CreateConflictFree inserts the reservation only if no active
// reservation overlaps [start_minute, end_minute) on the same court and
// date at commit time. The overlap re-check and the insert share one
// transaction, so a losing race leaves no partial row.
func (s *ReservationStore) CreateConflictFree(ctx context.Context, reservation *booking.Reservation) error {
	err := s.db.RunInTx(ctx, func(tx *sql.Tx) error {
		var conflicts int64
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reservations
			 WHERE court_id = ? AND date = ? AND status IN (?, ?)
			   AND start_minute < ? AND ? < end_minute`,
			reservation.CourtID, reservation.Date,
			string(booking.StatusPending), string(booking.StatusConfirmed),
			reservation.EndMinute, reservation.StartMinute,
		).Scan(&conflicts)
		if err != nil {
			return storeError("recheck availability", err)
		}
		if conflicts > 0 {
			return booking.ErrSlotUnavailable
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO reservations (booking_code, user_id, court_id, date, start_minute, end_minute,
			    duration_minutes, price_cents, status, created_at, updated_at, created_by, updated_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			reservation.BookingCode, reservation.UserID, reservation.CourtID, reservation.Date,
			reservation.StartMinute, reservation.EndMinute, reservation.DurationMinutes,
			reservation.PriceCents, string(reservation.Status),
			reservation.CreatedAt, reservation.UpdatedAt, reservation.CreatedBy, reservation.UpdatedBy,
		)
		if err != nil {
			return storeError("insert reservation", err)
		}
		reservation.ID, err = result.LastInsertId()
		if err != nil {
			return storeError("insert reservation", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// UpdateStatus applies from -> to only while the stored status still
// equals from. Returns false when the row was not in the expected state,
// so a stale transition fails instead of clobbering a concurrent one.
func (s *ReservationStore) UpdateStatus(ctx context.Context, id int64, from, to booking.Status, updatedBy string, updatedAt time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = ?, updated_by = ?
		 WHERE id = ? AND status = ?`,
		string(to), updatedAt, updatedBy, id, string(from),
	)
	if err != nil {
		return false, storeError("update reservation status", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, storeError("update reservation status", err)
	}
	return affected == 1, nil
}

func (s *ReservationStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return storeError("delete reservation", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storeError("delete reservation", err)
	}
	if affected == 0 {
		return booking.ErrReservationNotFound
	}
	return nil
}

func (s *ReservationStore) CountByStatus(ctx context.Context, status booking.Status) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE status = ?`, string(status),
	).Scan(&count)
	if err != nil {
		return 0, storeError("count reservations by status", err)
	}
	return count, nil
}

func (s *ReservationStore) CountByDate(ctx context.Context, date string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE date = ?`, date,
	).Scan(&count)
	if err != nil {
		return 0, storeError("count reservations by date", err)
	}
	return count, nil
}

func (s *ReservationStore) RevenueTotalCents(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price_cents), 0) FROM reservations WHERE status != ?`,
		string(booking.StatusCancelled),
	).Scan(&total)
	if err != nil {
		return 0, storeError("sum revenue", err)
	}
	return total, nil
}

func (s *ReservationStore) RevenueMonthCents(ctx context.Context, year int, month time.Month) (int64, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, int(month))
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price_cents), 0) FROM reservations
		 WHERE substr(date, 1, 7) = ? AND status != ?`,
		prefix, string(booking.StatusCancelled),
	).Scan(&total)
	if err != nil {
		return 0, storeError("sum month revenue", err)
	}
	return total, nil
}
