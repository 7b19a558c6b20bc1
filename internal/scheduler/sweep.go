package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

const sweepTimeout = 2 * time.Minute

// RegisterSweepJob schedules the reconciliation sweep that completes
// past-dated active reservations. The sweep is idempotent, so an
// overlapping or repeated run is harmless; singleton mode keeps runs
// from stacking anyway.
func RegisterSweepJob(engine *booking.Engine, cronExpr string) error {
	if engine == nil {
		return fmt.Errorf("sweep job requires engine")
	}

	jobName := "complete_expired_reservations"
	jobLogger := log.With().
		Str("component", "reservation_sweep_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		asOf := time.Now().Format(booking.DateLayout)
		completed, err := engine.CompleteExpiredReservations(ctx, asOf)
		if err != nil {
			jobLogger.Error().Err(err).Str("as_of", asOf).Msg("Reservation sweep failed")
			return
		}
		if completed > 0 {
			jobLogger.Info().Str("as_of", asOf).Int("completed", completed).Msg("Completed expired reservations")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add reservation sweep job: %w", err)
	}

	jobLogger.Info().Msg("Reservation sweep job registered")
	return nil
}
