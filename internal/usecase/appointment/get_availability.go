package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

type GetAvailability struct {
	store      domain.AvailabilityStore
	ledger     domain.Ledger
	cache      domain.SlotCache
	now        Clock
	minAdvance time.Duration
}

func NewGetAvailability(
	store domain.AvailabilityStore,
	ledger domain.Ledger,
	cache domain.SlotCache,
	now Clock,
	minAdvanceMinutes int,
) *GetAvailability {
	return &GetAvailability{
		store:      store,
		ledger:     ledger,
		cache:      cache,
		now:        now,
		minAdvance: time.Duration(minAdvanceMinutes) * time.Minute,
	}
}

// Execute lists the free slots of date. A date without a window has no
// slots; that is not an error.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	date string,
) ([]domain.TimeSlot, error) {

	day, err := timezone.ParseDate(date)
	if err != nil {
		return nil, domain.ErrInvalidDateOrTime
	}

	slots, ok := uc.cache.Get(ctx, date)
	if !ok {
		gen, cacheable := uc.cache.Generation(ctx, date)

		w, booked, err := domain.Snapshot(ctx, uc.store, uc.ledger, date)
		if err != nil {
			return nil, err
		}

		duration := time.Duration(0)
		if w != nil {
			duration = w.Duration
		}
		slots = domain.ToTimeSlots(domain.GenerateFreeSlots(w, booked), duration)
		if cacheable {
			uc.cache.Set(ctx, date, gen, slots)
		}
	}

	if uc.minAdvance <= 0 {
		return slots, nil
	}

	// The cached list is the whole day; the lead time depends on now.
	earliest := uc.now().Add(uc.minAdvance)
	out := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		start, err := timezone.ParseClock(day, s.Start)
		if err != nil {
			continue
		}
		if !start.Before(earliest) {
			out = append(out, s)
		}
	}
	return out, nil
}
