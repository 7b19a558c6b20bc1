package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

// CourtStore exposes the read-only court directory.
type CourtStore struct {
	db *DB
}

func NewCourtStore(database *DB) *CourtStore {
	return &CourtStore{db: database}
}

const courtColumns = `id, name, sport, hourly_price_cents, active`

func scanCourt(row interface{ Scan(...any) error }) (*booking.Court, error) {
	var court booking.Court
	if err := row.Scan(&court.ID, &court.Name, &court.Sport, &court.HourlyPriceCents, &court.Active); err != nil {
		return nil, err
	}
	return &court, nil
}

func (s *CourtStore) GetCourt(ctx context.Context, id int64) (*booking.Court, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = ?`, id)
	court, err := scanCourt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrCourtNotFound
		}
		return nil, storeError("get court", err)
	}
	return court, nil
}

func (s *CourtStore) ListCourts(ctx context.Context) ([]booking.Court, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+courtColumns+` FROM courts WHERE active = 1 ORDER BY name`)
	if err != nil {
		return nil, storeError("list courts", err)
	}
	defer rows.Close()

	var courts []booking.Court
	for rows.Next() {
		court, err := scanCourt(rows)
		if err != nil {
			return nil, storeError("list courts", err)
		}
		courts = append(courts, *court)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list courts", err)
	}
	return courts, nil
}

// InsertCourt adds a court. Used by seed tooling and tests; the engine
// itself never writes reference data.
func (s *CourtStore) InsertCourt(ctx context.Context, court *booking.Court) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO courts (name, sport, hourly_price_cents, active) VALUES (?, ?, ?, ?)`,
		court.Name, court.Sport, court.HourlyPriceCents, court.Active,
	)
	if err != nil {
		return storeError("insert court", err)
	}
	court.ID, err = result.LastInsertId()
	if err != nil {
		return storeError("insert court", err)
	}
	return nil
}
