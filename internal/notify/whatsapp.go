package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// WhatsAppNotifier sends appointment updates through Twilio, over WhatsApp
// or plain SMS.
type WhatsAppNotifier struct {
	client   messageCreator
	from     string
	whatsapp bool
}

func NewWhatsAppNotifier(accountSID, authToken, fromNumber string, whatsapp bool) *WhatsAppNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})

	return &WhatsAppNotifier{
		client:   client.Api,
		from:     fromNumber,
		whatsapp: whatsapp,
	}
}

// Only confirmations and cancellations go out by phone; a fresh booking
// is still waiting for the barber.
func (n *WhatsAppNotifier) Notify(_ context.Context, ap models.Appointment, ev domain.Event) error {
	if ev == domain.EventBooked {
		return nil
	}

	to := SanitizePhone(ap.ContactPhone())
	if to == "" {
		return nil
	}

	from := n.from
	if n.whatsapp {
		to = "whatsapp:" + to
		from = "whatsapp:" + from
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body(ap, ev))

	if _, err := n.client.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}
	return nil
}
