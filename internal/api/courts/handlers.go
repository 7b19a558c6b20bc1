// internal/api/courts/handlers.go
package courts

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nicolaspreciadodev/gosport/internal/api/apiutil"
	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

var (
	directory     booking.CourtDirectory
	directoryOnce sync.Once
)

const courtQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d booking.CourtDirectory) {
	if d == nil {
		return
	}
	directoryOnce.Do(func() {
		directory = d
	})
}

type courtResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Sport            string `json:"sport"`
	HourlyPriceCents int64  `json:"hourly_price_cents"`
	HourlyPrice      string `json:"hourly_price"`
	Active           bool   `json:"active"`
}

func renderCourt(c *booking.Court) courtResponse {
	return courtResponse{
		ID:               c.ID,
		Name:             c.Name,
		Sport:            c.Sport,
		HourlyPriceCents: c.HourlyPriceCents,
		HourlyPrice:      apiutil.FormatPriceCents(c.HourlyPriceCents),
		Active:           c.Active,
	}
}

// GET /api/v1/courts
func HandleCourtsList(w http.ResponseWriter, r *http.Request) {
	if directory == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	courts, err := directory.ListCourts(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	out := make([]courtResponse, 0, len(courts))
	for i := range courts {
		out = append(out, renderCourt(&courts[i]))
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, out); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write courts response")
	}
}

// GET /api/v1/courts/{id}
func HandleCourtGet(w http.ResponseWriter, r *http.Request) {
	if directory == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id, err := apiutil.ParsePositiveInt64Field(r.PathValue("id"), "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	court, err := directory.GetCourt(ctx, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, renderCourt(court)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write court response")
	}
}
