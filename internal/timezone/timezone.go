package timezone

import (
	"fmt"
	"time"
)

const DefaultTimezone = "America/Argentina/Buenos_Aires"

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	MonthLayout    = "2006-01"
	DateTimeLayout = "2006-01-02 15:04"
)

// All booking times are naive wall-clock values in the business zone. They
// are carried as time.Time located in UTC so that comparisons and the
// round trip through a `timestamp without time zone` column never shift them.

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Naive drops the location of t and keeps its wall clock.
func Naive(t time.Time) time.Time {
	return time.Date(
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.UTC,
	)
}

// NowIn returns the current wall clock of the business zone as a naive time.
func NowIn(tz string) time.Time {
	return Naive(time.Now().In(Location(tz)))
}

func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, time.UTC)
}

func ParseMonth(month string) (time.Time, error) {
	return time.ParseInLocation(MonthLayout, month, time.UTC)
}

// ParseClock parses HH:MM and places it on day.
func ParseClock(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", hm, err)
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		time.UTC,
	), nil
}

func ParseDateTime(date, hm string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, date+" "+hm, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}
