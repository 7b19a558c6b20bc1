package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

// UserStore resolves requester references for the engine.
type UserStore struct {
	db *DB
}

func NewUserStore(database *DB) *UserStore {
	return &UserStore{db: database}
}

const userColumns = `id, email, name, role, active`

func scanUser(row interface{ Scan(...any) error }) (*booking.User, error) {
	var user booking.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.Active); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUser(ctx context.Context, id int64) (*booking.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrUserNotFound
		}
		return nil, storeError("get user", err)
	}
	return user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*booking.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrUserNotFound
		}
		return nil, storeError("get user by email", err)
	}
	return user, nil
}

// InsertUser adds a user. Used by seed tooling and tests; user CRUD is
// otherwise outside the engine's scope.
func (s *UserStore) InsertUser(ctx context.Context, user *booking.User) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, name, role, active) VALUES (?, ?, ?, ?)`,
		user.Email, user.Name, user.Role, user.Active,
	)
	if err != nil {
		return storeError("insert user", err)
	}
	user.ID, err = result.LastInsertId()
	if err != nil {
		return storeError("insert user", err)
	}
	return nil
}
