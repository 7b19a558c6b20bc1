package apiutil

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

type errorResponse struct {
	Error string `json:"error"`
}

// WriteError maps engine errors onto HTTP status codes and renders a
// JSON error body. Unknown errors become a 500 with a generic message
// so internals never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)

	event := log.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = log.Ctx(r.Context()).Error()
	}
	event.
		Err(err).
		Int("status", status).
		Str("path", r.URL.Path).
		Msg("request failed")

	if writeErr := WriteJSON(w, status, errorResponse{Error: message}); writeErr != nil {
		log.Ctx(r.Context()).Error().Err(writeErr).Msg("failed to write error response")
	}
}

func classify(err error) (int, string) {
	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		return http.StatusBadRequest, fieldErr.Error()
	}
	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr.Status, handlerErr.Message
	}

	switch {
	case errors.Is(err, booking.ErrInvalidSlot):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, booking.ErrUnauthorized):
		return http.StatusForbidden, "not allowed"
	case errors.Is(err, booking.ErrCourtNotFound):
		return http.StatusNotFound, "court not found"
	case errors.Is(err, booking.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, booking.ErrReservationNotFound):
		return http.StatusNotFound, "reservation not found"
	case errors.Is(err, booking.ErrSlotUnavailable):
		return http.StatusConflict, "slot is already reserved"
	case errors.Is(err, booking.ErrInvalidTransition):
		return http.StatusConflict, "reservation state does not allow this change"
	case errors.Is(err, booking.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}
