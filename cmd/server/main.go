// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nicolaspreciadodev/gosport/internal/audit"
	"github.com/nicolaspreciadodev/gosport/internal/booking"
	"github.com/nicolaspreciadodev/gosport/internal/config"
	"github.com/nicolaspreciadodev/gosport/internal/db"
	"github.com/nicolaspreciadodev/gosport/internal/email"
	"github.com/nicolaspreciadodev/gosport/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	courtStore := db.NewCourtStore(database)
	userStore := db.NewUserStore(database)
	reservationStore := db.NewReservationStore(database)
	auditStore := audit.NewStore(database.DB)

	var notifier booking.Notifier
	if cfg.Email.Enabled {
		sesClient, err := email.NewSESClient(cfg.Email.AccessKey, cfg.Email.SecretKey, cfg.Email.Region, cfg.Email.Sender)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize email client")
		}
		notifier = email.NewNotifier(sesClient)
	}

	engine := booking.NewEngine(booking.EngineConfig{
		Store:               reservationStore,
		Courts:              courtStore,
		Users:               userStore,
		Audit:               auditStore,
		Notifier:            notifier,
		AutoConfirmOnCreate: cfg.Booking.AutoConfirmOnCreate,
	})

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := scheduler.RegisterSweepJob(engine, cfg.Booking.SweepCron); err != nil {
		log.Fatal().Err(err).Msg("Failed to register reservation sweep job")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
	}()

	server := newServer(cfg, engine, courtStore, userStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
