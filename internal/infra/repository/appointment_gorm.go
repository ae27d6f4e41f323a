package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/httperr"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// lockDate serialises every writer of one calendar date (bookings and
// window edits) until the surrounding transaction ends.
func lockDate(tx *gorm.DB, date string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "booking-day:"+date).Error
}

func findWindow(tx *gorm.DB, date string) (*models.AvailabilityWindow, error) {
	var w models.AvailabilityWindow
	err := tx.Where("date = ?", date).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func activeForDate(tx *gorm.DB, date string) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := tx.
		Where("date = ? AND status <> ?", date, string(domain.StatusCancelled)).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) Book(
	ctx context.Context,
	date string,
	decide domain.BookingDecision,
) (*models.Appointment, error) {

	var created models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDate(tx, date); err != nil {
			return fmt.Errorf("lock date %s: %w", date, err)
		}

		window, err := findWindow(tx, date)
		if err != nil {
			return fmt.Errorf("load window %s: %w", date, err)
		}

		booked, err := activeForDate(tx, date)
		if err != nil {
			return fmt.Errorf("load bookings %s: %w", date, err)
		}

		ap, err := decide(window, booked)
		if err != nil {
			return err
		}

		// appointments_no_overlap backs this insert up at the store level.
		if err := tx.Omit(clause.Associations).Create(ap).Error; err != nil {
			return err
		}

		return tx.Preload("Client").First(&created, "id = ?", ap.ID).Error
	})

	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, domain.ErrSlotNotAvailable
		}
		return nil, err
	}

	return &created, nil
}

func (r *AppointmentGormRepository) ListActiveForDate(
	ctx context.Context,
	date string,
) ([]models.Appointment, error) {
	return activeForDate(r.db.WithContext(ctx), date)
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		First(&ap, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	fn domain.Transition,
) (*models.Appointment, error) {

	var out models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ap models.Appointment
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ap, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAppointmentNotFound
		}
		if err != nil {
			return err
		}

		if err := fn(&ap); err != nil {
			return err
		}

		if err := tx.Model(&ap).
			Select("status", "status_changed_at", "updated_at").
			Updates(&ap).Error; err != nil {
			return err
		}

		return tx.Preload("Client").First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Preload("Client")

	if !f.From.IsZero() {
		q = q.Where("start_time >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("start_time < ?", f.To)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) CountByStatus(
	ctx context.Context,
	from time.Time,
	to time.Time,
) (map[domain.Status]int64, error) {

	var rows []struct {
		Status string
		Total  int64
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, count(*) AS total").
		Where("start_time >= ? AND start_time < ?", from, to).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		counts[domain.Status(row.Status)] = row.Total
	}
	return counts, nil
}

// Compile-time check
var _ domain.Ledger = (*AppointmentGormRepository)(nil)
