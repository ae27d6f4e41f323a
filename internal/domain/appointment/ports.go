package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-slots/internal/models"
)

// Eligibility decides whether a requester may book at all.
type Eligibility interface {
	IsEligible(ctx context.Context, r Requester) (bool, error)
}

type Event string

const (
	EventBooked    Event = "booked"
	EventConfirmed Event = "confirmed"
	EventCancelled Event = "cancelled"
)

// Notifier receives committed appointment changes. Failures never undo the
// change that triggered them.
type Notifier interface {
	Notify(ctx context.Context, ap models.Appointment, ev Event) error
}

// SlotCache memoises free-slot lists per date. Every Invalidate bumps the
// date's generation; Set stores only when the generation read before the
// list was computed is still current, so a list computed before a write
// never outlives it. ok=false from Generation means "do not cache".
type SlotCache interface {
	Get(ctx context.Context, date string) ([]TimeSlot, bool)
	Generation(ctx context.Context, date string) (gen int64, ok bool)
	Set(ctx context.Context, date string, gen int64, slots []TimeSlot)
	Invalidate(ctx context.Context, date string)
}

type NoopSlotCache struct{}

func (NoopSlotCache) Get(context.Context, string) ([]TimeSlot, bool)   { return nil, false }
func (NoopSlotCache) Generation(context.Context, string) (int64, bool) { return 0, false }
func (NoopSlotCache) Set(context.Context, string, int64, []TimeSlot)   {}
func (NoopSlotCache) Invalidate(context.Context, string)               {}
