package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

const sendTimeout = 5 * time.Second

// Notifier delivers reservation notifications through a Sender. Sends run
// asynchronously with their own timeout so a slow mail provider never
// stalls the booking path; delivery failures are logged only.
type Notifier struct {
	sender Sender
}

func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

func (n *Notifier) ReservationConfirmed(ctx context.Context, reservation booking.Reservation, court booking.Court, user booking.User) error {
	return n.deliver(ctx, user.Email, BuildConfirmationEmail(reservation, court, user))
}

func (n *Notifier) ReservationCancelled(ctx context.Context, reservation booking.Reservation, court booking.Court, user booking.User) error {
	return n.deliver(ctx, user.Email, BuildCancellationEmail(reservation, court, user))
}

func (n *Notifier) deliver(ctx context.Context, recipient string, message Message) error {
	if n == nil || n.sender == nil {
		return nil
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("recipient email is empty")
	}

	logger := log.Ctx(ctx).With().Str("recipient", recipient).Str("subject", message.Subject).Logger()
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := n.sender.Send(sendCtx, recipient, message.Subject, message.Body); err != nil {
			logger.Error().Err(err).Msg("Failed to send reservation email")
		}
	}()
	return nil
}
