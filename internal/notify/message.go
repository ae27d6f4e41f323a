package notify

import (
	"fmt"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

const dateTimeLayout = "02/01/2006 15:04"

func subject(ev domain.Event) string {
	switch ev {
	case domain.EventBooked:
		return "Recibimos tu reserva"
	case domain.EventConfirmed:
		return "Tu turno está confirmado"
	case domain.EventCancelled:
		return "Tu turno fue cancelado"
	}
	return "Novedades de tu turno"
}

func body(ap models.Appointment, ev domain.Event) string {
	when := ap.StartTime.Format(dateTimeLayout)

	switch ev {
	case domain.EventBooked:
		return fmt.Sprintf("Tu turno fue registrado para el %s. Pronto te confirmaremos.", when)
	case domain.EventConfirmed:
		return fmt.Sprintf("Tu turno ha sido confirmado para el %s. ¡Te esperamos!", when)
	case domain.EventCancelled:
		return fmt.Sprintf("Tu turno del %s fue cancelado.", when)
	}
	return fmt.Sprintf("Tu turno del %s cambió de estado: %s.", when, ap.Status)
}

// payload is the machine-readable event body.
type payload struct {
	Event         string `json:"event"`
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Status        string `json:"status"`
	ClientID      string `json:"client_id,omitempty"`
	ContactName   string `json:"contact_name"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
}

func newPayload(ap models.Appointment, ev domain.Event) payload {
	p := payload{
		Event:         string(ev),
		AppointmentID: ap.ID.String(),
		Date:          ap.Date,
		Start:         timezone.FormatClock(ap.StartTime),
		End:           timezone.FormatClock(ap.EndTime),
		Status:        ap.Status,
		ContactName:   ap.ContactName(),
		ContactEmail:  ap.ContactEmail(),
		ContactPhone:  ap.ContactPhone(),
	}
	if ap.ClientID != nil {
		p.ClientID = ap.ClientID.String()
	}
	return p
}
