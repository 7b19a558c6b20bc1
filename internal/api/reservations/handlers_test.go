package reservations

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nicolaspreciadodev/gosport/internal/api"
	"github.com/nicolaspreciadodev/gosport/internal/audit"
	"github.com/nicolaspreciadodev/gosport/internal/booking"
	"github.com/nicolaspreciadodev/gosport/internal/db"
	"github.com/nicolaspreciadodev/gosport/internal/testutil"
)

type handlerFixture struct {
	mux   *http.ServeMux
	court *booking.Court
	user  *booking.User
	admin *booking.User
}

func setupHandlersTest(t *testing.T) *handlerFixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	e := booking.NewEngine(booking.EngineConfig{
		Store:               db.NewReservationStore(database),
		Courts:              db.NewCourtStore(database),
		Users:               db.NewUserStore(database),
		Audit:               audit.NewStore(database.DB),
		AutoConfirmOnCreate: true,
	})

	engine = nil
	engineOnce = sync.Once{}
	InitHandlers(e)
	t.Cleanup(func() {
		engine = nil
		engineOnce = sync.Once{}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/courts/{id}/occupied", HandleOccupiedSlots)
	mux.HandleFunc("POST /api/v1/reservations", HandleReservationCreate)
	mux.HandleFunc("GET /api/v1/reservations/mine", HandleMyReservations)
	mux.HandleFunc("GET /api/v1/reservations/{id}", HandleReservationGet)
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", HandleReservationCancel)
	mux.HandleFunc("GET /api/v1/admin/reservations", HandleReservationsList)
	mux.HandleFunc("PUT /api/v1/admin/reservations/{id}/status", HandleReservationStatusChange)
	mux.HandleFunc("DELETE /api/v1/admin/reservations/{id}", HandleReservationDelete)
	mux.HandleFunc("GET /api/v1/admin/stats", HandleDashboardStats)

	return &handlerFixture{
		mux:   mux,
		court: testutil.SeedCourt(t, database, "Court 1"),
		user:  testutil.SeedUser(t, database, "player@example.com", booking.RoleUser),
		admin: testutil.SeedUser(t, database, "admin@example.com", booking.RoleAdmin),
	}
}

func (f *handlerFixture) do(t *testing.T, method, target, body string, as *booking.User) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if as != nil {
		req = req.WithContext(api.ContextWithPrincipal(req.Context(), testutil.PrincipalFor(as)))
	}

	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func (f *handlerFixture) createReservation(t *testing.T, date, startTime string) reservationResponse {
	t.Helper()

	body := fmt.Sprintf(`{"court_id": %d, "date": %q, "start_time": %q, "duration_minutes": 60, "price_cents": 2500}`, f.court.ID, date, startTime)
	w := f.do(t, http.MethodPost, "/api/v1/reservations", body, f.user)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp reservationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHandleReservationCreate(t *testing.T) {
	f := setupHandlersTest(t)

	resp := f.createReservation(t, "2030-05-01", "09:00")
	if resp.StartTime != "09:00" || resp.EndTime != "10:00" {
		t.Fatalf("unexpected slot rendering: %+v", resp)
	}
	if resp.Status != string(booking.StatusConfirmed) {
		t.Fatalf("expected CONFIRMED, got %s", resp.Status)
	}
	if !strings.HasPrefix(resp.BookingCode, "RES-") {
		t.Fatalf("expected RES- booking code, got %q", resp.BookingCode)
	}
	if resp.Price != "$25.00" {
		t.Fatalf("expected $25.00, got %q", resp.Price)
	}
}

func TestHandleReservationCreateUnauthenticated(t *testing.T) {
	f := setupHandlersTest(t)

	body := fmt.Sprintf(`{"court_id": %d, "date": "2030-05-01", "start_time": "09:00", "duration_minutes": 60}`, f.court.ID)
	w := f.do(t, http.MethodPost, "/api/v1/reservations", body, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestHandleReservationCreateConflict(t *testing.T) {
	f := setupHandlersTest(t)
	f.createReservation(t, "2030-05-01", "09:00")

	body := fmt.Sprintf(`{"court_id": %d, "date": "2030-05-01", "start_time": "09:30", "duration_minutes": 60, "price_cents": 2500}`, f.court.ID)
	w := f.do(t, http.MethodPost, "/api/v1/reservations", body, f.user)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleReservationCreateBadInput(t *testing.T) {
	f := setupHandlersTest(t)

	body := fmt.Sprintf(`{"court_id": %d, "date": "2030-05-01", "start_time": "late", "duration_minutes": 60}`, f.court.ID)
	w := f.do(t, http.MethodPost, "/api/v1/reservations", body, f.user)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad clock, got %d", w.Code)
	}

	body = fmt.Sprintf(`{"court_id": %d, "date": "2030-05-01", "start_time": "09:00", "duration_minutes": 45}`, f.court.ID)
	w = f.do(t, http.MethodPost, "/api/v1/reservations", body, f.user)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for off-grid duration, got %d", w.Code)
	}
}

func TestHandleReservationCancel(t *testing.T) {
	f := setupHandlersTest(t)
	created := f.createReservation(t, "2030-05-01", "09:00")

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", created.ID), "", f.user)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp reservationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != string(booking.StatusCancelled) {
		t.Fatalf("expected CANCELLED, got %s", resp.Status)
	}

	// A second cancel finds the reservation already terminal.
	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", created.ID), "", f.user)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestHandleReservationCancelForbidden(t *testing.T) {
	f := setupHandlersTest(t)
	created := f.createReservation(t, "2030-05-01", "09:00")

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", created.ID), "", f.admin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected admin cancel to succeed, got %d", w.Code)
	}

	second := f.createReservation(t, "2030-05-02", "09:00")
	other := booking.User{ID: second.UserID + 100, Email: "other@example.com", Role: booking.RoleUser}
	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", second.ID), "", &other)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestHandleOccupiedSlots(t *testing.T) {
	f := setupHandlersTest(t)
	f.createReservation(t, "2030-05-01", "11:00")
	f.createReservation(t, "2030-05-01", "09:00")

	w := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/courts/%d/occupied?date=2030-05-01", f.court.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var slots []occupiedSlotResponse
	if err := json.Unmarshal(w.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].StartTime != "09:00" || slots[1].StartTime != "11:00" {
		t.Fatalf("expected slots ordered by start, got %+v", slots)
	}

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/courts/%d/occupied", f.court.ID), "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date, got %d", w.Code)
	}
}

func TestHandleMyReservations(t *testing.T) {
	f := setupHandlersTest(t)
	f.createReservation(t, "2030-05-01", "09:00")
	past := f.createReservation(t, "2020-05-01", "09:00")

	w := f.do(t, http.MethodGet, "/api/v1/reservations/mine", "", f.user)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp myReservationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Upcoming) != 1 || resp.Upcoming[0].Date != "2030-05-01" {
		t.Fatalf("unexpected upcoming: %+v", resp.Upcoming)
	}
	if len(resp.History) != 1 || resp.History[0].ID != past.ID {
		t.Fatalf("unexpected history: %+v", resp.History)
	}
}

func TestHandleReservationsListRequiresAdmin(t *testing.T) {
	f := setupHandlersTest(t)
	f.createReservation(t, "2030-05-01", "09:00")

	w := f.do(t, http.MethodGet, "/api/v1/admin/reservations", "", f.user)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/v1/admin/reservations?status=CONFIRMED", "", f.admin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var list []reservationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(list))
	}

	w = f.do(t, http.MethodGet, "/api/v1/admin/reservations?status=BOGUS", "", f.admin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestHandleReservationStatusChange(t *testing.T) {
	f := setupHandlersTest(t)
	created := f.createReservation(t, "2030-05-01", "09:00")

	w := f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/reservations/%d/status", created.ID), `{"status": "COMPLETED"}`, f.admin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp reservationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != string(booking.StatusCompleted) {
		t.Fatalf("expected COMPLETED, got %s", resp.Status)
	}

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/reservations/%d/status", created.ID), `{"status": "CONFIRMED"}`, f.admin)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for terminal state, got %d", w.Code)
	}

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/reservations/%d/status", created.ID), `{"status": "BOGUS"}`, f.admin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/reservations/%d/status", created.ID), `{"status": "CANCELLED"}`, f.user)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}
}

func TestHandleReservationDelete(t *testing.T) {
	f := setupHandlersTest(t)
	created := f.createReservation(t, "2030-05-01", "09:00")

	w := f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/reservations/%d", created.ID), "", f.user)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/reservations/%d", created.ID), "", f.admin)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/reservations/%d", created.ID), "", f.admin)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestHandleDashboardStats(t *testing.T) {
	f := setupHandlersTest(t)
	f.createReservation(t, "2030-05-01", "09:00")
	f.createReservation(t, "2030-05-01", "11:00")

	w := f.do(t, http.MethodGet, "/api/v1/admin/stats", "", f.user)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/v1/admin/stats", "", f.admin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp statsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalReservations != 2 || resp.Confirmed != 2 {
		t.Fatalf("unexpected stats: %+v", resp)
	}
	if resp.RevenueTotalCents != 5000 || resp.RevenueTotal != "$50.00" {
		t.Fatalf("unexpected revenue: %+v", resp)
	}
}
