package email

import (
	"strings"
	"testing"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

func TestFormatPriceCents(t *testing.T) {
	if got := FormatPriceCents(2500); got != "$25.00" {
		t.Fatalf("expected $25.00, got %s", got)
	}
	if got := FormatPriceCents(95); got != "$0.95" {
		t.Fatalf("expected $0.95, got %s", got)
	}
}

func TestBuildConfirmationEmail(t *testing.T) {
	reservation := booking.Reservation{
		BookingCode: "RES-1748563200000",
		Date:        "2026-05-01",
		StartMinute: 540,
		EndMinute:   600,
		PriceCents:  2500,
		Status:      booking.StatusConfirmed,
	}
	court := booking.Court{Name: "Court 1", Sport: "padel"}
	user := booking.User{Name: "Dana", Email: "dana@example.com"}

	msg := BuildConfirmationEmail(reservation, court, user)
	if !strings.Contains(msg.Subject, reservation.BookingCode) {
		t.Fatalf("expected booking code in subject, got %q", msg.Subject)
	}
	for _, want := range []string{"RES-1748563200000", "Court 1", "09:00", "10:00", "$25.00"} {
		if !strings.Contains(msg.Body, want) {
			t.Fatalf("expected body to contain %q:\n%s", want, msg.Body)
		}
	}
	if strings.Contains(msg.Body, "pending confirmation") {
		t.Fatalf("confirmed booking should not carry the pending note")
	}
}

func TestBuildConfirmationEmailPendingNote(t *testing.T) {
	reservation := booking.Reservation{
		BookingCode: "RES-1",
		Date:        "2026-05-01",
		StartMinute: 540,
		EndMinute:   600,
		Status:      booking.StatusPending,
	}
	msg := BuildConfirmationEmail(reservation, booking.Court{Name: "Court 1"}, booking.User{Name: "Dana"})
	if !strings.Contains(msg.Body, "pending confirmation") {
		t.Fatalf("expected pending note:\n%s", msg.Body)
	}
}

func TestBuildCancellationEmail(t *testing.T) {
	reservation := booking.Reservation{
		BookingCode: "RES-2",
		Date:        "2026-05-01",
		StartMinute: 540,
		EndMinute:   600,
		Status:      booking.StatusCancelled,
	}
	msg := BuildCancellationEmail(reservation, booking.Court{Name: "Court 1", Sport: "padel"}, booking.User{Name: "Dana"})
	if !strings.Contains(msg.Subject, "cancelled") {
		t.Fatalf("expected cancellation subject, got %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "RES-2") {
		t.Fatalf("expected booking code in body:\n%s", msg.Body)
	}
}
