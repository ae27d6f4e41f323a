package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

func (r *AvailabilityGormRepository) GetWindow(
	ctx context.Context,
	date string,
) (*models.AvailabilityWindow, error) {
	return findWindow(r.db.WithContext(ctx), date)
}

// SetWindow is last-writer-wins per date. It takes the same date lock as
// Book so a booking never commits against a half-replaced window.
func (r *AvailabilityGormRepository) SetWindow(
	ctx context.Context,
	w *models.AvailabilityWindow,
) (*models.AvailabilityWindow, []models.Appointment, error) {

	var (
		saved  *models.AvailabilityWindow
		active []models.Appointment
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDate(tx, w.Date); err != nil {
			return fmt.Errorf("lock date %s: %w", w.Date, err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"open_time",
				"close_time",
				"slot_duration_minutes",
				"blocked",
				"updated_at",
			}),
		}).Create(w).Error; err != nil {
			return err
		}

		var err error
		if saved, err = findWindow(tx, w.Date); err != nil {
			return err
		}
		active, err = activeForDate(tx, w.Date)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return saved, active, nil
}

func (r *AvailabilityGormRepository) DeleteWindow(
	ctx context.Context,
	date string,
) (*models.AvailabilityWindow, []models.Appointment, error) {

	var (
		removed *models.AvailabilityWindow
		active  []models.Appointment
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDate(tx, date); err != nil {
			return fmt.Errorf("lock date %s: %w", date, err)
		}

		var err error
		if removed, err = findWindow(tx, date); err != nil {
			return err
		}
		if removed != nil {
			if err := tx.Delete(&models.AvailabilityWindow{}, removed.ID).Error; err != nil {
				return err
			}
		}
		active, err = activeForDate(tx, date)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return removed, active, nil
}

func (r *AvailabilityGormRepository) ListWindows(
	ctx context.Context,
	from string,
	to string,
) ([]models.AvailabilityWindow, error) {

	q := r.db.WithContext(ctx)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var windows []models.AvailabilityWindow
	if err := q.Order("date ASC").Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

// Compile-time check
var _ domain.AvailabilityStore = (*AvailabilityGormRepository)(nil)
