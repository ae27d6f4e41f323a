package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

// ===============================
// Domain Actions
// ===============================

// New builds a pending appointment. EndTime is fixed here from the window
// in force, so later window edits cannot change its length.
func New(
	start time.Time,
	duration time.Duration,
	requester Requester,
	notes string,
	now time.Time,
) *models.Appointment {
	ap := &models.Appointment{
		ID:              uuid.New(),
		Date:            timezone.FormatDate(start),
		StartTime:       start,
		EndTime:         start.Add(duration),
		Status:          string(InitialStatus()),
		Notes:           notes,
		CreatedAt:       now,
		StatusChangedAt: now,
	}
	requester.apply(ap)
	return ap
}

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.StatusChangedAt = now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.StatusChangedAt = now
	return nil
}

// IsActive reports whether the appointment still holds its interval.
func IsActive(ap models.Appointment) bool {
	return Status(ap.Status) != StatusCancelled
}
