package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-slots/internal/models"
)

// AvailabilityStore owns AvailabilityWindow records.
type AvailabilityStore interface {
	// GetWindow returns nil, nil when the date has no window.
	GetWindow(
		ctx context.Context,
		date string,
	) (*models.AvailabilityWindow, error)

	// SetWindow upserts the window for its date. The returned snapshot lists
	// the active appointments of that date as seen under the same lock.
	SetWindow(
		ctx context.Context,
		w *models.AvailabilityWindow,
	) (*models.AvailabilityWindow, []models.Appointment, error)

	// DeleteWindow returns the removed window (nil if none existed) and the
	// active appointments of that date.
	DeleteWindow(
		ctx context.Context,
		date string,
	) (*models.AvailabilityWindow, []models.Appointment, error)

	ListWindows(
		ctx context.Context,
		from string,
		to string,
	) ([]models.AvailabilityWindow, error)
}

// BookingDecision runs inside the ledger's per-date critical section. It
// sees the window in force (nil if absent) and the active appointments of
// the date, and returns the appointment to insert or a rejection.
type BookingDecision func(
	window *models.AvailabilityWindow,
	booked []models.Appointment,
) (*models.Appointment, error)

// Transition mutates an appointment loaded under a row lock.
type Transition func(ap *models.Appointment) error

type ListFilter struct {
	From   time.Time // inclusive
	To     time.Time // exclusive
	Status Status    // empty means any
}

// Ledger owns Appointment records.
type Ledger interface {
	// Book runs decide and the insert as one atomic unit. Two Book calls for
	// the same date never interleave their decide/insert steps.
	Book(
		ctx context.Context,
		date string,
		decide BookingDecision,
	) (*models.Appointment, error)

	// ListActiveForDate returns non-cancelled appointments ordered by start.
	ListActiveForDate(
		ctx context.Context,
		date string,
	) ([]models.Appointment, error)

	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	// UpdateStatus applies fn and persists the result atomically.
	// Unknown ids yield ErrAppointmentNotFound.
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		fn Transition,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	CountByStatus(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) (map[Status]int64, error)
}

// Snapshot returns the window (or nil) and active bookings of a date.
func Snapshot(
	ctx context.Context,
	store AvailabilityStore,
	ledger Ledger,
	date string,
) (*Window, []models.Appointment, error) {
	wm, err := store.GetWindow(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	booked, err := ledger.ListActiveForDate(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	if wm == nil {
		return nil, booked, nil
	}
	w, err := WindowFromModel(wm)
	if err != nil {
		return nil, nil, err
	}
	return &w, booked, nil
}
