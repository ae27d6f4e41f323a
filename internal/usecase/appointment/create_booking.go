package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	Date      string
	Time      string
	Requester domain.Requester
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	ledger      domain.Ledger
	eligibility domain.Eligibility
	effects     Effects
	now         Clock
	minAdvance  time.Duration
}

func NewCreateBooking(
	ledger domain.Ledger,
	eligibility domain.Eligibility,
	effects Effects,
	now Clock,
	minAdvanceMinutes int,
) *CreateBooking {
	return &CreateBooking{
		ledger:      ledger,
		eligibility: eligibility,
		effects:     effects,
		now:         now,
		minAdvance:  time.Duration(minAdvanceMinutes) * time.Minute,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Date / time
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(in.Date, in.Time)
	if err != nil {
		return nil, domain.ErrInvalidDateOrTime
	}

	if uc.minAdvance > 0 && start.Before(uc.now().Add(uc.minAdvance)) {
		return nil, domain.ErrTooSoon
	}

	// --------------------------------------------------
	// 2. Requester
	// --------------------------------------------------
	if in.Requester == nil {
		return nil, domain.ErrInvalidRequester
	}
	if err := in.Requester.Validate(); err != nil {
		return nil, err
	}

	ok, err := uc.eligibility.IsEligible(ctx, in.Requester)
	if err != nil {
		return nil, fmt.Errorf("eligibility: %w", err)
	}
	if !ok {
		return nil, domain.ErrRequesterIneligible
	}

	// --------------------------------------------------
	// 3. Check and insert under the date lock
	// --------------------------------------------------
	ap, err := uc.ledger.Book(ctx, in.Date, func(
		wm *models.AvailabilityWindow,
		booked []models.Appointment,
	) (*models.Appointment, error) {
		if wm == nil || wm.Blocked {
			return nil, domain.ErrNoWindow
		}
		w, err := domain.WindowFromModel(wm)
		if err != nil {
			return nil, err
		}
		if !domain.IsFree(&w, booked, start) {
			return nil, domain.ErrSlotNotAvailable
		}
		return domain.New(start, w.Duration, in.Requester, in.Notes, uc.now()), nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotNotAvailable) {
			uc.effects.record(actorOf(in.Requester), "booking_conflict", "appointment", "", map[string]string{
				"date": in.Date,
				"time": in.Time,
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4. After commit
	// --------------------------------------------------
	uc.effects.invalidate(ctx, ap.Date)
	uc.effects.record(actorOf(in.Requester), "appointment_booked", "appointment", ap.ID.String(), map[string]string{
		"start": timezone.FormatClock(ap.StartTime),
		"end":   timezone.FormatClock(ap.EndTime),
		"date":  ap.Date,
	})
	uc.effects.announce(ctx, ap, domain.EventBooked)

	return ap, nil
}

func actorOf(r domain.Requester) string {
	switch req := r.(type) {
	case domain.RegisteredClient:
		return "client:" + req.ID.String()
	case domain.GuestDetails:
		return "guest:" + req.Email
	}
	return "unknown"
}
