package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

// WindowChange is the result of an availability edit. Outside holds the
// active appointments that no longer fit; they are flagged, never moved.
type WindowChange struct {
	Window  *models.AvailabilityWindow
	Outside []models.Appointment
}

// ======================================================
// SET
// ======================================================

type SetAvailability struct {
	store   domain.AvailabilityStore
	effects Effects
}

func NewSetAvailability(
	store domain.AvailabilityStore,
	effects Effects,
) *SetAvailability {
	return &SetAvailability{
		store:   store,
		effects: effects,
	}
}

func (uc *SetAvailability) Execute(
	ctx context.Context,
	actor string,
	in domain.AvailabilityInput,
) (*WindowChange, error) {

	w, err := domain.ParseWindow(in)
	if err != nil {
		return nil, err
	}

	saved, active, err := uc.store.SetWindow(ctx, &models.AvailabilityWindow{
		Date:                in.Date,
		OpenTime:            timezone.FormatClock(w.Open),
		CloseTime:           timezone.FormatClock(w.Close),
		SlotDurationMinutes: in.SlotDurationMinutes,
		Blocked:             in.Blocked,
	})
	if err != nil {
		return nil, err
	}

	outside := domain.OutsideWindow(&w, active)

	uc.effects.invalidate(ctx, in.Date)
	uc.effects.record(actor, "availability_set", "availability_window", in.Date, map[string]any{
		"open_time":             saved.OpenTime,
		"close_time":            saved.CloseTime,
		"slot_duration_minutes": saved.SlotDurationMinutes,
		"blocked":               saved.Blocked,
		"outside_window":        appointmentIDs(outside),
	})

	return &WindowChange{Window: saved, Outside: outside}, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteAvailability struct {
	store   domain.AvailabilityStore
	effects Effects
}

func NewDeleteAvailability(
	store domain.AvailabilityStore,
	effects Effects,
) *DeleteAvailability {
	return &DeleteAvailability{
		store:   store,
		effects: effects,
	}
}

func (uc *DeleteAvailability) Execute(
	ctx context.Context,
	actor string,
	date string,
) (*WindowChange, error) {

	if _, err := timezone.ParseDate(date); err != nil {
		return nil, domain.ErrInvalidDateOrTime
	}

	removed, active, err := uc.store.DeleteWindow(ctx, date)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, domain.ErrNoWindow
	}

	outside := domain.OutsideWindow(nil, active)

	uc.effects.invalidate(ctx, date)
	uc.effects.record(actor, "availability_deleted", "availability_window", date, map[string]any{
		"outside_window": appointmentIDs(outside),
	})

	return &WindowChange{Window: removed, Outside: outside}, nil
}

// ======================================================
// LIST
// ======================================================

type ListAvailability struct {
	store domain.AvailabilityStore
}

func NewListAvailability(store domain.AvailabilityStore) *ListAvailability {
	return &ListAvailability{store: store}
}

// Execute lists configured windows between from and to, both inclusive and
// both optional.
func (uc *ListAvailability) Execute(
	ctx context.Context,
	from string,
	to string,
) ([]models.AvailabilityWindow, error) {

	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := timezone.ParseDate(d); err != nil {
			return nil, domain.ErrInvalidDateOrTime
		}
	}

	return uc.store.ListWindows(ctx, from, to)
}

func appointmentIDs(aps []models.Appointment) []string {
	ids := make([]string, 0, len(aps))
	for _, ap := range aps {
		ids = append(ids, ap.ID.String())
	}
	return ids
}
