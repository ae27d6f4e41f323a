package notify

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

// LogNotifier records every notification in the application log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notify")}
}

func (n *LogNotifier) Notify(_ context.Context, ap models.Appointment, ev domain.Event) error {
	n.log.Info("appointment notification",
		zap.String("event", string(ev)),
		zap.String("appointment_id", ap.ID.String()),
		zap.String("contact", ap.ContactName()),
		zap.String("message", body(ap, ev)),
	)
	return nil
}
