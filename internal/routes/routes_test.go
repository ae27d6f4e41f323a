package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barber-slots/internal/audit"
	"github.com/BruksfildServices01/barber-slots/internal/config"
	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/eligibility"
	"github.com/BruksfildServices01/barber-slots/internal/infra/memory"
	"github.com/BruksfildServices01/barber-slots/internal/middleware"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/notify"
)

const jwtSecret = "routes-test-secret"

type server struct {
	engine *gin.Engine
	store  *memory.Store
	admin  string
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		JWTSecret:         jwtSecret,
		AdminEmail:        "admin@barber.local",
		AdminPasswordHash: string(hash),
		BusinessTimezone:  "America/Argentina/Buenos_Aires",
	}

	log := zap.NewNop()
	store := memory.NewStore()

	auditor := audit.NewDispatcher(audit.NewZapSink(log), log)
	notifier := notify.NewDispatcher(log, notify.NewLogNotifier(log))
	t.Cleanup(func() {
		notifier.Close()
		auditor.Close()
	})

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config:      cfg,
		Store:       store,
		Ledger:      store,
		Eligibility: eligibility.NewChecker(store, false),
		Notifier:    notifier,
		Cache:       domain.NoopSlotCache{},
		Audit:       auditor,
		Clock:       func() time.Time { return time.Date(2030, 6, 1, 8, 0, 0, 0, time.UTC) },
		Log:         log,
	})

	s := &server{engine: r, store: store}
	s.admin = s.login(t)
	return s
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) login(t *testing.T) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@barber.local", "password": "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

type errorBody struct {
	Code string `json:"error_code"`
}

type slotsBody struct {
	Slots []domain.TimeSlot `json:"slots"`
}

type appointmentBody struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"`
	OutsideWindow bool      `json:"outside_window"`
}

type listBody struct {
	Data  []appointmentBody `json:"data"`
	Total int               `json:"total"`
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@barber.local", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	if w := s.do(http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
}

func TestBookingFlowOverHTTP(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPut, "/api/admin/availability/2030-06-03", "", gin.H{"open_time": "09:00", "close_time": "18:00", "slot_duration_minutes": 60})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("admin routes need a token, got %d", w.Code)
	}

	w = s.do(http.MethodPut, "/api/admin/availability/2030-06-03", s.admin, gin.H{"open_time": "09:00", "close_time": "18:00", "slot_duration_minutes": 60})
	if w.Code != http.StatusOK {
		t.Fatalf("set availability: %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/public/availability?date=2030-06-03", "", nil)
	if got := decode[slotsBody](t, w); len(got.Slots) != 9 || got.Slots[0].Start != "09:00" || got.Slots[8].End != "18:00" {
		t.Fatalf("unexpected slots %+v", got)
	}

	guest := gin.H{"date": "2030-06-03", "time": "09:00", "guest_name": "Ana", "guest_email": "ana@example.com", "guest_phone": "011 4444-5555"}
	w = s.do(http.MethodPost, "/api/public/appointments", "", guest)
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}
	booked := decode[appointmentBody](t, w)

	w = s.do(http.MethodPost, "/api/public/appointments", "", guest)
	if w.Code != http.StatusConflict || decode[errorBody](t, w).Code != "slot_not_available" {
		t.Fatalf("double booking: %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPatch, "/api/admin/appointments/"+booked.ID.String()+"/confirm", s.admin, nil)
	if w.Code != http.StatusOK || decode[appointmentBody](t, w).Status != "confirmed" {
		t.Fatalf("confirm: %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPatch, "/api/admin/appointments/"+booked.ID.String()+"/confirm", s.admin, nil)
	if w.Code != http.StatusConflict || decode[errorBody](t, w).Code != "invalid_transition" {
		t.Fatalf("second confirm: %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPut, "/api/admin/availability/2030-06-03", s.admin, gin.H{"open_time": "12:00", "close_time": "18:00", "slot_duration_minutes": 60})
	change := decode[struct {
		Warnings []appointmentBody `json:"warnings"`
	}](t, w)
	if len(change.Warnings) != 1 || change.Warnings[0].ID != booked.ID || !change.Warnings[0].OutsideWindow {
		t.Fatalf("expected a warning for the 09:00 appointment, got %s", w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/admin/appointments?date=2030-06-03", s.admin, nil)
	list := decode[listBody](t, w)
	if list.Total != 1 || list.Data[0].Status != "confirmed" || !list.Data[0].OutsideWindow {
		t.Fatalf("unexpected list %s", w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/admin/appointments?status=confirmed", s.admin, nil)
	if list := decode[listBody](t, w); w.Code != http.StatusOK || list.Total != 1 || list.Data[0].ID != booked.ID {
		t.Fatalf("status-only list: %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/admin/stats?month=2030-06", s.admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: %d", w.Code)
	}
}

func TestErrorStatuses(t *testing.T) {
	s := newServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		code   string
	}{
		{"bad date", http.MethodGet, "/api/public/availability?date=junio", "", nil, http.StatusBadRequest, "invalid_date_or_time"},
		{"no window", http.MethodPost, "/api/public/appointments", "", gin.H{"date": "2030-06-09", "time": "09:00", "guest_name": "Ana", "guest_email": "ana@example.com", "guest_phone": "1"}, http.StatusNotFound, "invalid_window"},
		{"bad guest", http.MethodPost, "/api/public/appointments", "", gin.H{"date": "2030-06-09", "time": "09:00", "guest_name": "Ana"}, http.StatusBadRequest, "invalid_requester"},
		{"guest phone too long", http.MethodPost, "/api/public/appointments", "", gin.H{"date": "2030-06-03", "time": "09:00", "guest_name": "Ana", "guest_email": "ana@example.com", "guest_phone": "+54 9 11 4444-5555 int 123"}, http.StatusBadRequest, "invalid_requester"},
		{"missing fields", http.MethodPost, "/api/public/appointments", "", gin.H{"time": "09:00"}, http.StatusBadRequest, "invalid_request"},
		{"bad window", http.MethodPut, "/api/admin/availability/2030-06-03", s.admin, gin.H{"open_time": "18:00", "close_time": "09:00", "slot_duration_minutes": 60}, http.StatusBadRequest, "invalid_window"},
		{"unknown appointment", http.MethodPatch, "/api/admin/appointments/" + uuid.NewString() + "/cancel", s.admin, nil, http.StatusNotFound, "appointment_not_found"},
		{"bad id", http.MethodPatch, "/api/admin/appointments/42/cancel", s.admin, nil, http.StatusBadRequest, "invalid_id"},
	}

	for _, tc := range cases {
		w := s.do(tc.method, tc.path, tc.token, tc.body)
		if w.Code != tc.status || decode[errorBody](t, w).Code != tc.code {
			t.Errorf("%s: got %d %s, want %d %s", tc.name, w.Code, w.Body.String(), tc.status, tc.code)
		}
	}
}

func TestRegisteredClientBooksAndCancels(t *testing.T) {
	s := newServer(t)

	verified := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	owner := models.Client{ID: uuid.New(), Name: "Leo", Email: "leo@example.com", Phone: "1", EmailVerifiedAt: &verified}
	stranger := models.Client{ID: uuid.New(), Name: "Sol", Email: "sol@example.com", Phone: "2", EmailVerifiedAt: &verified}
	unverified := models.Client{ID: uuid.New(), Name: "Max", Email: "max@example.com", Phone: "3"}
	s.store.PutClient(owner)
	s.store.PutClient(stranger)
	s.store.PutClient(unverified)

	s.do(http.MethodPut, "/api/admin/availability/2030-06-03", s.admin, gin.H{"open_time": "09:00", "close_time": "12:00", "slot_duration_minutes": 60})

	ownerToken, _ := middleware.IssueToken(jwtSecret, owner.ID.String(), middleware.RoleClient, time.Hour)
	strangerToken, _ := middleware.IssueToken(jwtSecret, stranger.ID.String(), middleware.RoleClient, time.Hour)
	unverifiedToken, _ := middleware.IssueToken(jwtSecret, unverified.ID.String(), middleware.RoleClient, time.Hour)

	w := s.do(http.MethodPost, "/api/public/appointments", unverifiedToken, gin.H{"date": "2030-06-03", "time": "09:00"})
	if w.Code != http.StatusForbidden || decode[errorBody](t, w).Code != "requester_ineligible" {
		t.Fatalf("unverified client: %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPost, "/api/public/appointments", ownerToken, gin.H{"date": "2030-06-03", "time": "09:00"})
	if w.Code != http.StatusCreated {
		t.Fatalf("client booking: %d %s", w.Code, w.Body.String())
	}
	ap := decode[appointmentBody](t, w)

	path := "/api/me/appointments/" + ap.ID.String() + "/cancel"
	if w := s.do(http.MethodPatch, path, strangerToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("someone else's appointment must read as missing, got %d", w.Code)
	}
	if w := s.do(http.MethodPatch, path, s.admin, nil); w.Code != http.StatusForbidden {
		t.Fatalf("admin tokens cannot use client routes, got %d", w.Code)
	}
	if w := s.do(http.MethodPatch, path, ownerToken, nil); w.Code != http.StatusOK {
		t.Fatalf("owner cancel: %d %s", w.Code, w.Body.String())
	}
}
