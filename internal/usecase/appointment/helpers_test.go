package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-slots/internal/audit"
	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/infra/memory"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

const testDate = "2030-06-03"

var fixedNow = time.Date(2030, 6, 1, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// ===============================
// Fakes
// ===============================

type allowAll struct{}

func (allowAll) IsEligible(context.Context, domain.Requester) (bool, error) { return true, nil }

type denyAll struct{}

func (denyAll) IsEligible(context.Context, domain.Requester) (bool, error) { return false, nil }

type sent struct {
	id string
	ev domain.Event
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, ap models.Appointment, ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{id: ap.ID.String(), ev: ev})
	return r.err
}

func (r *recordingNotifier) count(ev domain.Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.ev == ev {
			n++
		}
	}
	return n
}

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Log(ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}

type mapCache struct {
	mu          sync.Mutex
	entries     map[string][]domain.TimeSlot
	gens        map[string]int64
	invalidated []string
}

func newMapCache() *mapCache {
	return &mapCache{
		entries: map[string][]domain.TimeSlot{},
		gens:    map[string]int64{},
	}
}

func (c *mapCache) Get(_ context.Context, date string) ([]domain.TimeSlot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[date]
	return s, ok
}

func (c *mapCache) Generation(_ context.Context, date string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[date], true
}

func (c *mapCache) Set(_ context.Context, date string, gen int64, slots []domain.TimeSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[date] != gen {
		return
	}
	c.entries[date] = slots
}

func (c *mapCache) Invalidate(_ context.Context, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[date]++
	delete(c.entries, date)
	c.invalidated = append(c.invalidated, date)
}

// ===============================
// Harness
// ===============================

type harness struct {
	store    *memory.Store
	notifier *recordingNotifier
	sink     *recordingSink
	auditor  *audit.Dispatcher
	cache    domain.SlotCache
	eligible domain.Eligibility

	book      *CreateBooking
	slots     *GetAvailability
	setWindow *SetAvailability
	delWindow *DeleteAvailability
	confirm   *ConfirmAppointment
	cancel    *CancelAppointment
	list      *ListAppointments
	stats     *MonthlyStats
}

type option func(*harness)

func withEligibility(e domain.Eligibility) option {
	return func(h *harness) { h.eligible = e }
}

func withCache(c domain.SlotCache) option {
	return func(h *harness) { h.cache = c }
}

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()

	h := &harness{
		store:    memory.NewStore(),
		notifier: &recordingNotifier{},
		sink:     &recordingSink{},
		cache:    domain.NoopSlotCache{},
		eligible: allowAll{},
	}
	h.auditor = audit.NewDispatcher(h.sink, zap.NewNop())
	t.Cleanup(h.auditor.Close)

	for _, opt := range opts {
		opt(h)
	}
	h.wire()
	return h
}

func (h *harness) effects() Effects {
	return Effects{
		Notifier: h.notifier,
		Cache:    h.cache,
		Audit:    h.auditor,
		Log:      zap.NewNop(),
	}
}

func (h *harness) wire() {
	fx := h.effects()
	h.book = NewCreateBooking(h.store, h.eligible, fx, fixedClock, 0)
	h.slots = NewGetAvailability(h.store, h.store, h.cache, fixedClock, 0)
	h.setWindow = NewSetAvailability(h.store, fx)
	h.delWindow = NewDeleteAvailability(h.store, fx)
	h.confirm = NewConfirmAppointment(h.store, fx, fixedClock)
	h.cancel = NewCancelAppointment(h.store, fx, fixedClock)
	h.list = NewListAppointments(h.store, h.store)
	h.stats = NewMonthlyStats(h.store, fixedClock)
}

func (h *harness) open(t *testing.T, date, from, to string, minutes int) *WindowChange {
	t.Helper()
	change, err := h.setWindow.Execute(context.Background(), "admin", domain.AvailabilityInput{
		Date:                date,
		OpenTime:            from,
		CloseTime:           to,
		SlotDurationMinutes: minutes,
	})
	if err != nil {
		t.Fatalf("set window: %v", err)
	}
	return change
}

func guest(name string) domain.GuestDetails {
	return domain.GuestDetails{Name: name, Email: name + "@example.com", Phone: "1144445555"}
}

func (h *harness) bookAt(t *testing.T, hm string, r domain.Requester) *models.Appointment {
	t.Helper()
	ap, err := h.book.Execute(context.Background(), CreateBookingInput{
		Date:      testDate,
		Time:      hm,
		Requester: r,
	})
	if err != nil {
		t.Fatalf("book %s: %v", hm, err)
	}
	return ap
}

func (h *harness) freeStarts(t *testing.T) []string {
	t.Helper()
	slots, err := h.slots.Execute(context.Background(), testDate)
	if err != nil {
		t.Fatalf("list free slots: %v", err)
	}
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
