package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailNotifier sends appointment updates through SendGrid.
type EmailNotifier struct {
	client   mailSender
	fromName string
	from     string
}

func NewEmailNotifier(apiKey, fromEmail, fromName string) *EmailNotifier {
	return &EmailNotifier{
		client:   sendgrid.NewSendClient(apiKey),
		from:     fromEmail,
		fromName: fromName,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, ap models.Appointment, ev domain.Event) error {
	to := ap.ContactEmail()
	if to == "" {
		return nil
	}

	text := body(ap, ev)
	msg := mail.NewSingleEmail(
		mail.NewEmail(n.fromName, n.from),
		subject(ev),
		mail.NewEmail(ap.ContactName(), to),
		text,
		"<p>"+text+"</p>",
	)

	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", to, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
