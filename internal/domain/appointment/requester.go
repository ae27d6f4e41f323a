package appointment

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-slots/internal/models"
)

var validate = validator.New()

// Requester is either a RegisteredClient or GuestDetails.
type Requester interface {
	Validate() error
	apply(ap *models.Appointment)
}

type RegisteredClient struct {
	ID uuid.UUID
}

// GuestDetails limits match the guest_* column sizes.
type GuestDetails struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"required,email,max=100"`
	Phone string `validate:"required,max=20"`
}

func (r RegisteredClient) Validate() error {
	if r.ID == uuid.Nil {
		return ErrInvalidRequester
	}
	return nil
}

func (r RegisteredClient) apply(ap *models.Appointment) {
	id := r.ID
	ap.ClientID = &id
}

func (g GuestDetails) Validate() error {
	if err := validate.Struct(g.trimmed()); err != nil {
		return ErrInvalidRequester
	}
	return nil
}

func (g GuestDetails) trimmed() GuestDetails {
	return GuestDetails{
		Name:  strings.TrimSpace(g.Name),
		Email: strings.TrimSpace(g.Email),
		Phone: strings.TrimSpace(g.Phone),
	}
}

func (g GuestDetails) apply(ap *models.Appointment) {
	t := g.trimmed()
	ap.GuestName = t.Name
	ap.GuestEmail = t.Email
	ap.GuestPhone = t.Phone
}
