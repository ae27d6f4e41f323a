package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-slots/internal/models"
)

// CandidateSlots steps from Open by Duration while a whole slot still fits
// before Close. A trailing remainder shorter than one slot is never offered.
func CandidateSlots(w Window) []time.Time {
	if w.Duration <= 0 || !w.Open.Before(w.Close) {
		return nil
	}

	var slots []time.Time
	for cur := w.Open; !cur.Add(w.Duration).After(w.Close); cur = cur.Add(w.Duration) {
		slots = append(slots, cur)
	}
	return slots
}

// GenerateFreeSlots returns the candidate starts of w whose interval does not
// overlap any active appointment. Cancelled appointments are ignored. The
// result is ordered and depends only on its inputs. A blocked day has none.
func GenerateFreeSlots(w *Window, booked []models.Appointment) []time.Time {
	if w == nil || w.Blocked {
		return []time.Time{}
	}

	busy := make([]Interval, 0, len(booked))
	for _, ap := range booked {
		if !IsActive(ap) {
			continue
		}
		busy = append(busy, Interval{Start: ap.StartTime, End: ap.EndTime})
	}

	free := []time.Time{}
	for _, start := range CandidateSlots(*w) {
		slot := Interval{Start: start, End: start.Add(w.Duration)}
		if !overlapsAny(slot, busy) {
			free = append(free, start)
		}
	}
	return free
}

// IsFree reports whether start is one of the free slot starts.
func IsFree(w *Window, booked []models.Appointment, start time.Time) bool {
	for _, s := range GenerateFreeSlots(w, booked) {
		if s.Equal(start) {
			return true
		}
	}
	return false
}

func overlapsAny(slot Interval, busy []Interval) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}
