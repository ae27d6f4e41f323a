package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

// Store keeps windows and appointments in process memory. It is used by
// STORE=memory and by tests. A single mutex makes every Book call a
// serialized check-and-insert.
type Store struct {
	mu           sync.Mutex
	windows      map[string]models.AvailabilityWindow
	appointments map[uuid.UUID]models.Appointment
	clients      map[uuid.UUID]models.Client
	nextWindowID uint
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		windows:      map[string]models.AvailabilityWindow{},
		appointments: map[uuid.UUID]models.Appointment{},
		clients:      map[uuid.UUID]models.Client{},
		now:          time.Now,
	}
}

// --------------------------------------------------
// Clients
// --------------------------------------------------

func (s *Store) PutClient(c models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
}

func (s *Store) GetClient(_ context.Context, id uuid.UUID) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// --------------------------------------------------
// AvailabilityStore
// --------------------------------------------------

func (s *Store) GetWindow(_ context.Context, date string) (*models.AvailabilityWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[date]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s *Store) SetWindow(
	_ context.Context,
	w *models.AvailabilityWindow,
) (*models.AvailabilityWindow, []models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	saved := *w
	if prev, ok := s.windows[w.Date]; ok {
		saved.ID = prev.ID
		saved.CreatedAt = prev.CreatedAt
	} else {
		s.nextWindowID++
		saved.ID = s.nextWindowID
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	s.windows[w.Date] = saved

	return &saved, s.activeForDateLocked(w.Date), nil
}

func (s *Store) DeleteWindow(
	_ context.Context,
	date string,
) (*models.AvailabilityWindow, []models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[date]
	if !ok {
		return nil, s.activeForDateLocked(date), nil
	}
	delete(s.windows, date)
	return &w, s.activeForDateLocked(date), nil
}

func (s *Store) ListWindows(_ context.Context, from, to string) ([]models.AvailabilityWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.AvailabilityWindow{}
	for date, w := range s.windows {
		if (from == "" || date >= from) && (to == "" || date <= to) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (s *Store) Book(
	_ context.Context,
	date string,
	decide domain.BookingDecision,
) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var window *models.AvailabilityWindow
	if w, ok := s.windows[date]; ok {
		window = &w
	}
	booked := s.activeForDateLocked(date)

	ap, err := decide(window, booked)
	if err != nil {
		return nil, err
	}

	// Store-level exclusivity, independent of what decide checked.
	candidate := domain.Interval{Start: ap.StartTime, End: ap.EndTime}
	for _, other := range booked {
		if candidate.Overlaps(domain.Interval{Start: other.StartTime, End: other.EndTime}) {
			return nil, domain.ErrSlotNotAvailable
		}
	}

	s.appointments[ap.ID] = *ap
	return s.withClientLocked(*ap), nil
}

func (s *Store) ListActiveForDate(_ context.Context, date string) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeForDateLocked(date), nil
}

func (s *Store) GetAppointment(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	return s.withClientLocked(ap), nil
}

func (s *Store) UpdateStatus(
	_ context.Context,
	id uuid.UUID,
	fn domain.Transition,
) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}

	working := ap
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.UpdatedAt = s.now()
	s.appointments[id] = working
	return s.withClientLocked(working), nil
}

func (s *Store) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Appointment{}
	for _, ap := range s.appointments {
		if !f.From.IsZero() && ap.StartTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !ap.StartTime.Before(f.To) {
			continue
		}
		if f.Status != "" && ap.Status != string(f.Status) {
			continue
		}
		out = append(out, *s.withClientLocked(ap))
	}
	sortByStart(out)
	return out, nil
}

func (s *Store) CountByStatus(_ context.Context, from, to time.Time) (map[domain.Status]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[domain.Status]int64{}
	for _, ap := range s.appointments {
		if ap.StartTime.Before(from) || !ap.StartTime.Before(to) {
			continue
		}
		counts[domain.Status(ap.Status)]++
	}
	return counts, nil
}

func (s *Store) activeForDateLocked(date string) []models.Appointment {
	out := []models.Appointment{}
	for _, ap := range s.appointments {
		if ap.Date == date && domain.IsActive(ap) {
			out = append(out, ap)
		}
	}
	sortByStart(out)
	return out
}

func (s *Store) withClientLocked(ap models.Appointment) *models.Appointment {
	if ap.ClientID != nil {
		if c, ok := s.clients[*ap.ClientID]; ok {
			ap.Client = &c
		}
	}
	return &ap
}

func sortByStart(aps []models.Appointment) {
	sort.Slice(aps, func(i, j int) bool {
		if aps[i].StartTime.Equal(aps[j].StartTime) {
			return aps[i].ID.String() < aps[j].ID.String()
		}
		return aps[i].StartTime.Before(aps[j].StartTime)
	})
}

// Compile-time checks
var (
	_ domain.AvailabilityStore = (*Store)(nil)
	_ domain.Ledger            = (*Store)(nil)
)
