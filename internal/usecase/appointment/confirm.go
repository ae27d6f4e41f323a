package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

type ConfirmAppointment struct {
	ledger  domain.Ledger
	effects Effects
	now     Clock
}

func NewConfirmAppointment(
	ledger domain.Ledger,
	effects Effects,
	now Clock,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		ledger:  ledger,
		effects: effects,
		now:     now,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	actor string,
	id uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.ledger.UpdateStatus(ctx, id, func(ap *models.Appointment) error {
		return domain.Confirm(ap, uc.now())
	})
	if err != nil {
		return nil, err
	}

	uc.effects.record(actor, "appointment_confirmed", "appointment", ap.ID.String(), nil)
	uc.effects.announce(ctx, ap, domain.EventConfirmed)

	return ap, nil
}
