package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

type CancelAppointment struct {
	ledger  domain.Ledger
	effects Effects
	now     Clock
}

func NewCancelAppointment(
	ledger domain.Ledger,
	effects Effects,
	now Clock,
) *CancelAppointment {
	return &CancelAppointment{
		ledger:  ledger,
		effects: effects,
		now:     now,
	}
}

// Execute cancels on behalf of the administrator.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor string,
	id uuid.UUID,
) (*models.Appointment, error) {
	return uc.cancel(ctx, actor, id, func(*models.Appointment) error { return nil })
}

// ExecuteForClient cancels an appointment the client booked. Someone else's
// appointment reads as not found.
func (uc *CancelAppointment) ExecuteForClient(
	ctx context.Context,
	clientID uuid.UUID,
	id uuid.UUID,
) (*models.Appointment, error) {
	return uc.cancel(ctx, "client:"+clientID.String(), id, func(ap *models.Appointment) error {
		if ap.ClientID == nil || *ap.ClientID != clientID {
			return domain.ErrAppointmentNotFound
		}
		return nil
	})
}

func (uc *CancelAppointment) cancel(
	ctx context.Context,
	actor string,
	id uuid.UUID,
	authorize domain.Transition,
) (*models.Appointment, error) {

	ap, err := uc.ledger.UpdateStatus(ctx, id, func(ap *models.Appointment) error {
		if err := authorize(ap); err != nil {
			return err
		}
		return domain.Cancel(ap, uc.now())
	})
	if err != nil {
		return nil, err
	}

	uc.effects.invalidate(ctx, ap.Date)
	uc.effects.record(actor, "appointment_cancelled", "appointment", ap.ID.String(), nil)
	uc.effects.announce(ctx, ap, domain.EventCancelled)

	return ap, nil
}
