package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

type AvailabilityInput struct {
	Date                string
	OpenTime            string
	CloseTime           string
	SlotDurationMinutes int
	Blocked             bool
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Window is an AvailabilityWindow resolved to concrete instants.
type Window struct {
	Day      time.Time
	Open     time.Time
	Close    time.Time
	Duration time.Duration
	Blocked  bool
}

// Interval is a half-open [Start, End) span.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(o Interval) bool {
	return o.Start.Before(i.End) && i.Start.Before(o.End)
}

// ParseWindow validates an availability input and resolves it.
func ParseWindow(in AvailabilityInput) (Window, error) {
	day, err := timezone.ParseDate(in.Date)
	if err != nil {
		return Window{}, ErrInvalidDateOrTime
	}
	open, err := timezone.ParseClock(day, in.OpenTime)
	if err != nil {
		return Window{}, ErrInvalidWindow
	}
	closing, err := timezone.ParseClock(day, in.CloseTime)
	if err != nil {
		return Window{}, ErrInvalidWindow
	}
	if !open.Before(closing) || in.SlotDurationMinutes <= 0 {
		return Window{}, ErrInvalidWindow
	}

	return Window{
		Day:      day,
		Open:     open,
		Close:    closing,
		Duration: time.Duration(in.SlotDurationMinutes) * time.Minute,
		Blocked:  in.Blocked,
	}, nil
}

func WindowFromModel(w *models.AvailabilityWindow) (Window, error) {
	return ParseWindow(AvailabilityInput{
		Date:                w.Date,
		OpenTime:            w.OpenTime,
		CloseTime:           w.CloseTime,
		SlotDurationMinutes: w.SlotDurationMinutes,
		Blocked:             w.Blocked,
	})
}

// Contains reports whether iv lies entirely inside the opening hours.
func (w Window) Contains(iv Interval) bool {
	return !iv.Start.Before(w.Open) && !iv.End.After(w.Close)
}

// OutsideWindow returns the active appointments that no longer fit w.
// A nil or blocked window means the day is not bookable at all.
func OutsideWindow(w *Window, appointments []models.Appointment) []models.Appointment {
	var out []models.Appointment
	for _, ap := range appointments {
		if !IsActive(ap) {
			continue
		}
		if w == nil || w.Blocked || !w.Contains(Interval{Start: ap.StartTime, End: ap.EndTime}) {
			out = append(out, ap)
		}
	}
	return out
}

func ToTimeSlots(starts []time.Time, d time.Duration) []TimeSlot {
	out := make([]TimeSlot, 0, len(starts))
	for _, s := range starts {
		out = append(out, TimeSlot{
			Start: timezone.FormatClock(s),
			End:   timezone.FormatClock(s.Add(d)),
		})
	}
	return out
}
