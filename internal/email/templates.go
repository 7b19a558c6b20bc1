package email

import (
	"fmt"
	"strings"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	Subject string
	Body    string
}

// FormatPriceCents renders an integer-cents amount for display.
func FormatPriceCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func slotLine(reservation booking.Reservation) string {
	return fmt.Sprintf("%s from %s to %s",
		reservation.Date,
		booking.ClockOfMinute(reservation.StartMinute),
		booking.ClockOfMinute(reservation.EndMinute),
	)
}

// BuildConfirmationEmail renders the booking confirmation message.
func BuildConfirmationEmail(reservation booking.Reservation, court booking.Court, user booking.User) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", user.Name)
	fmt.Fprintf(&body, "Your reservation is booked. See you on the court!\n\n")
	fmt.Fprintf(&body, "Booking code: %s\n", reservation.BookingCode)
	fmt.Fprintf(&body, "Court: %s (%s)\n", court.Name, court.Sport)
	fmt.Fprintf(&body, "When: %s\n", slotLine(reservation))
	fmt.Fprintf(&body, "Total: %s\n", FormatPriceCents(reservation.PriceCents))
	if reservation.Status == booking.StatusPending {
		fmt.Fprintf(&body, "\nYour booking is pending confirmation. We will let you know once it is approved.\n")
	}

	return Message{
		Subject: fmt.Sprintf("Reservation %s confirmed", reservation.BookingCode),
		Body:    body.String(),
	}
}

// BuildCancellationEmail renders the cancellation notice.
func BuildCancellationEmail(reservation booking.Reservation, court booking.Court, user booking.User) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", user.Name)
	fmt.Fprintf(&body, "Your reservation %s has been cancelled.\n\n", reservation.BookingCode)
	fmt.Fprintf(&body, "Court: %s (%s)\n", court.Name, court.Sport)
	fmt.Fprintf(&body, "When: %s\n", slotLine(reservation))
	fmt.Fprintf(&body, "\nThe slot is free again; you can book another one any time.\n")

	return Message{
		Subject: fmt.Sprintf("Reservation %s cancelled", reservation.BookingCode),
		Body:    body.String(),
	}
}
