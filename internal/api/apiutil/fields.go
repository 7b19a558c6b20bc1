package apiutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

// Field parsers return FieldError so handlers can surface the offending
// field name in 400 responses.

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, FieldError{Field: field, Reason: "must be greater than 0"}
	}
	return value, nil
}

func ParseOptionalPositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return ParsePositiveInt64Field(raw, field)
}

func ParseDateField(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	if !booking.ValidDate(raw) {
		return "", FieldError{Field: field, Reason: "must be a date in YYYY-MM-DD form"}
	}
	return raw, nil
}

func ParseOptionalDateField(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	return ParseDateField(raw, field)
}

func ParseClockField(raw string, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	minute, err := booking.MinuteOfDay(raw)
	if err != nil {
		return 0, FieldError{Field: field, Reason: "must be a clock value in HH:MM form"}
	}
	return minute, nil
}

func FormatPriceCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// StatusLabel maps state tags to their human-readable display names.
// Presentation concern only; the engine never consumes these.
func StatusLabel(status booking.Status) string {
	switch status {
	case booking.StatusPending:
		return "Pending"
	case booking.StatusConfirmed:
		return "Confirmed"
	case booking.StatusCancelled:
		return "Cancelled"
	case booking.StatusCompleted:
		return "Completed"
	}
	return string(status)
}
