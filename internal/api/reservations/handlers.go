// internal/api/reservations/handlers.go
package reservations

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nicolaspreciadodev/gosport/internal/api"
	"github.com/nicolaspreciadodev/gosport/internal/api/apiutil"
	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

var (
	engine     *booking.Engine
	engineOnce sync.Once
)

const reservationQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(e *booking.Engine) {
	if e == nil {
		return
	}
	engineOnce.Do(func() {
		engine = e
	})
}

type createRequest struct {
	CourtID         int64  `json:"court_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
}

type reservationResponse struct {
	ID              int64  `json:"id"`
	BookingCode     string `json:"booking_code"`
	UserID          int64  `json:"user_id"`
	CourtID         int64  `json:"court_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
	Price           string `json:"price"`
	Status          string `json:"status"`
	StatusLabel     string `json:"status_label"`
	CreatedAt       string `json:"created_at"`
}

func renderReservation(r *booking.Reservation) reservationResponse {
	return reservationResponse{
		ID:              r.ID,
		BookingCode:     r.BookingCode,
		UserID:          r.UserID,
		CourtID:         r.CourtID,
		Date:            r.Date,
		StartTime:       booking.ClockOfMinute(r.StartMinute),
		EndTime:         booking.ClockOfMinute(r.EndMinute),
		DurationMinutes: r.DurationMinutes,
		PriceCents:      r.PriceCents,
		Price:           apiutil.FormatPriceCents(r.PriceCents),
		Status:          string(r.Status),
		StatusLabel:     apiutil.StatusLabel(r.Status),
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func renderReservations(reservations []booking.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, renderReservation(&reservations[i]))
	}
	return out
}

// POST /api/v1/reservations
func HandleReservationCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		logger.Error().Msg("Reservation engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := apiutil.ParseDateField(req.Date, "date")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	startMinute, err := apiutil.ParseClockField(req.StartTime, "start_time")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	reservation, err := e.CreateReservation(ctx, booking.CreateParams{
		RequesterID:     principal.UserID,
		CourtID:         req.CourtID,
		Date:            date,
		StartMinute:     startMinute,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("reservation_id", reservation.ID).
		Str("booking_code", reservation.BookingCode).
		Int64("court_id", reservation.CourtID).
		Msg("Reservation created")

	if err := apiutil.WriteJSON(w, http.StatusCreated, renderReservation(reservation)); err != nil {
		logger.Error().Err(err).Msg("Failed to write reservation response")
	}
}

// GET /api/v1/reservations/{id}
func HandleReservationGet(w http.ResponseWriter, r *http.Request) {
	e := loadEngine()
	if e == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := apiutil.ParsePositiveInt64Field(r.PathValue("id"), "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	reservation, err := e.GetReservation(ctx, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if !principal.IsAdmin() && reservation.UserID != principal.UserID {
		apiutil.WriteError(w, r, booking.ErrUnauthorized)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, renderReservation(reservation)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write reservation response")
	}
}

// POST /api/v1/reservations/{id}/cancel
func HandleReservationCancel(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := apiutil.ParsePositiveInt64Field(r.PathValue("id"), "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	reservation, err := e.CancelReservation(ctx, id, principal)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("reservation_id", reservation.ID).
		Str("booking_code", reservation.BookingCode).
		Msg("Reservation cancelled")

	if err := apiutil.WriteJSON(w, http.StatusOK, renderReservation(reservation)); err != nil {
		logger.Error().Err(err).Msg("Failed to write reservation response")
	}
}

type statusChangeRequest struct {
	Status string `json:"status"`
}

// PUT /api/v1/admin/reservations/{id}/status
func HandleReservationStatusChange(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := apiutil.ParsePositiveInt64Field(r.PathValue("id"), "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req statusChangeRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	target, ok := booking.ParseStatus(strings.TrimSpace(req.Status))
	if !ok {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "status", Reason: "is not a known reservation status"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	reservation, err := e.ChangeStatus(ctx, id, target, principal)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("reservation_id", reservation.ID).
		Str("status", string(reservation.Status)).
		Msg("Reservation status changed")

	if err := apiutil.WriteJSON(w, http.StatusOK, renderReservation(reservation)); err != nil {
		logger.Error().Err(err).Msg("Failed to write reservation response")
	}
}

// DELETE /api/v1/admin/reservations/{id}
func HandleReservationDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := apiutil.ParsePositiveInt64Field(r.PathValue("id"), "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	if err := e.DeleteReservation(ctx, id, principal); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("reservation_id", id).Msg("Reservation deleted")
	w.WriteHeader(http.StatusNoContent)
}

type occupiedSlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// GET /api/v1/courts/{id}/occupied?date=YYYY-MM-DD
func HandleOccupiedSlots(w http.ResponseWriter, r *http.Request) {
	e := loadEngine()
	if e == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	courtID, err := apiutil.ParsePositiveInt64Field(r.PathValue("id"), "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	date, err := apiutil.ParseDateField(r.URL.Query().Get("date"), "date")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	slots, err := e.ListOccupiedSlots(ctx, courtID, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	out := make([]occupiedSlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, occupiedSlotResponse{
			StartTime: booking.ClockOfMinute(slot.StartMinute),
			EndTime:   booking.ClockOfMinute(slot.EndMinute),
		})
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, out); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write slots response")
	}
}

type myReservationsResponse struct {
	Upcoming []reservationResponse `json:"upcoming"`
	History  []reservationResponse `json:"history"`
}

// GET /api/v1/reservations/mine
func HandleMyReservations(w http.ResponseWriter, r *http.Request) {
	e := loadEngine()
	if e == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	reservations, err := e.ListByRequester(ctx, principal.UserID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	today := time.Now().Format(booking.DateLayout)
	out := myReservationsResponse{
		Upcoming: []reservationResponse{},
		History:  []reservationResponse{},
	}
	for i := range reservations {
		reservation := &reservations[i]
		if reservation.IsUpcoming(today) && reservation.Status.IsActive() {
			out.Upcoming = append(out.Upcoming, renderReservation(reservation))
		} else {
			out.History = append(out.History, renderReservation(reservation))
		}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, out); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write reservations response")
	}
}

// GET /api/v1/admin/reservations?status=&court_id=&date_from=&date_to=&limit=&offset=
func HandleReservationsList(w http.ResponseWriter, r *http.Request) {
	e := loadEngine()
	if e == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !principal.IsAdmin() {
		apiutil.WriteError(w, r, booking.ErrUnauthorized)
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	reservations, err := e.ListFiltered(ctx, filter)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, renderReservations(reservations)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write reservations response")
	}
}

func parseListFilter(r *http.Request) (booking.ReservationFilter, error) {
	query := r.URL.Query()
	var filter booking.ReservationFilter

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, ok := booking.ParseStatus(raw)
		if !ok {
			return filter, apiutil.FieldError{Field: "status", Reason: "is not a known reservation status"}
		}
		filter.Status = status
	}
	courtID, err := apiutil.ParseOptionalPositiveInt64Field(query.Get("court_id"), "court_id")
	if err != nil {
		return filter, err
	}
	filter.CourtID = courtID

	if filter.DateFrom, err = apiutil.ParseOptionalDateField(query.Get("date_from"), "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = apiutil.ParseOptionalDateField(query.Get("date_to"), "date_to"); err != nil {
		return filter, err
	}

	limit, err := apiutil.ParseOptionalPositiveInt64Field(query.Get("limit"), "limit")
	if err != nil {
		return filter, err
	}
	filter.Limit = int(limit)
	offset, err := apiutil.ParseOptionalPositiveInt64Field(query.Get("offset"), "offset")
	if err != nil {
		return filter, err
	}
	filter.Offset = int(offset)
	return filter, nil
}

type statsResponse struct {
	TotalReservations int64  `json:"total_reservations"`
	Pending           int64  `json:"pending"`
	Confirmed         int64  `json:"confirmed"`
	Cancelled         int64  `json:"cancelled"`
	Completed         int64  `json:"completed"`
	Today             int64  `json:"today"`
	RevenueTotalCents int64  `json:"revenue_total_cents"`
	RevenueMonthCents int64  `json:"revenue_month_cents"`
	RevenueTotal      string `json:"revenue_total"`
	RevenueMonth      string `json:"revenue_month"`
}

// GET /api/v1/admin/stats
func HandleDashboardStats(w http.ResponseWriter, r *http.Request) {
	e := loadEngine()
	if e == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !principal.IsAdmin() {
		apiutil.WriteError(w, r, booking.ErrUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	stats, err := e.Stats(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	out := statsResponse{
		TotalReservations: stats.TotalReservations,
		Pending:           stats.Pending,
		Confirmed:         stats.Confirmed,
		Cancelled:         stats.Cancelled,
		Completed:         stats.Completed,
		Today:             stats.Today,
		RevenueTotalCents: stats.RevenueTotalCents,
		RevenueMonthCents: stats.RevenueMonthCents,
		RevenueTotal:      apiutil.FormatPriceCents(stats.RevenueTotalCents),
		RevenueMonth:      apiutil.FormatPriceCents(stats.RevenueMonthCents),
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, out); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write stats response")
	}
}

func loadEngine() *booking.Engine {
	return engine
}
