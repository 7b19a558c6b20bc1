// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nicolaspreciadodev/gosport/internal/api"
	"github.com/nicolaspreciadodev/gosport/internal/api/courts"
	"github.com/nicolaspreciadodev/gosport/internal/api/reservations"
	"github.com/nicolaspreciadodev/gosport/internal/booking"
	"github.com/nicolaspreciadodev/gosport/internal/config"
)

func newServer(cfg *config.Config, engine *booking.Engine, courtDir booking.CourtDirectory, users booking.UserDirectory) *http.Server {
	reservations.InitHandlers(engine)
	courts.InitHandlers(courtDir)

	router := http.NewServeMux()
	registerRoutes(router)

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithIdentity(users),
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Court routes
	mux.HandleFunc("GET /api/v1/courts", courts.HandleCourtsList)
	mux.HandleFunc("GET /api/v1/courts/{id}", courts.HandleCourtGet)
	mux.HandleFunc("GET /api/v1/courts/{id}/occupied", reservations.HandleOccupiedSlots)

	// Reservation routes
	mux.HandleFunc("POST /api/v1/reservations", reservations.HandleReservationCreate)
	mux.HandleFunc("GET /api/v1/reservations/mine", reservations.HandleMyReservations)
	mux.HandleFunc("GET /api/v1/reservations/{id}", reservations.HandleReservationGet)
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", reservations.HandleReservationCancel)

	// Admin routes
	mux.HandleFunc("GET /api/v1/admin/reservations", reservations.HandleReservationsList)
	mux.HandleFunc("PUT /api/v1/admin/reservations/{id}/status", reservations.HandleReservationStatusChange)
	mux.HandleFunc("DELETE /api/v1/admin/reservations/{id}", reservations.HandleReservationDelete)
	mux.HandleFunc("GET /api/v1/admin/stats", reservations.HandleDashboardStats)
}
