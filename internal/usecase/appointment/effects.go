package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-slots/internal/audit"
	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

// Clock returns the current business-zone wall clock.
type Clock func() time.Time

func BusinessClock(tz string) Clock {
	return func() time.Time { return timezone.NowIn(tz) }
}

// Effects runs the post-commit side effects shared by every write use case.
// None of them can fail the operation that triggered them.
type Effects struct {
	Notifier domain.Notifier
	Cache    domain.SlotCache
	Audit    *audit.Dispatcher
	Log      *zap.Logger
}

func (e Effects) announce(ctx context.Context, ap *models.Appointment, ev domain.Event) {
	if err := e.Notifier.Notify(ctx, *ap, ev); err != nil {
		e.Log.Warn("notification not queued",
			zap.String("appointment_id", ap.ID.String()),
			zap.String("event", string(ev)),
			zap.Error(err),
		)
	}
}

func (e Effects) invalidate(ctx context.Context, date string) {
	e.Cache.Invalidate(ctx, date)
}

func (e Effects) record(actor, action, entity, entityID string, metadata any) {
	e.Audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: metadata,
	})
}
