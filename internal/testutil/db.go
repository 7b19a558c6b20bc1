package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
	"github.com/nicolaspreciadodev/gosport/internal/db"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedCourt inserts a court and returns it with its id assigned.
func SeedCourt(t *testing.T, database *db.DB, name string) *booking.Court {
	t.Helper()

	court := &booking.Court{
		Name:             name,
		Sport:            "padel",
		HourlyPriceCents: 2500,
		Active:           true,
	}
	if err := db.NewCourtStore(database).InsertCourt(context.Background(), court); err != nil {
		t.Fatalf("seed court: %v", err)
	}
	return court
}

// SeedUser inserts a user with the given role and returns it with its id
// assigned.
func SeedUser(t *testing.T, database *db.DB, email, role string) *booking.User {
	t.Helper()

	user := &booking.User{
		Email:  email,
		Name:   email,
		Role:   role,
		Active: true,
	}
	if err := db.NewUserStore(database).InsertUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// PrincipalFor builds the acting principal for a seeded user.
func PrincipalFor(user *booking.User) booking.Principal {
	return booking.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
}
