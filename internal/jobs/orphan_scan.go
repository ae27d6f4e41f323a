package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-slots/internal/audit"
	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

// OrphanScan reports active appointments in the coming days that fall
// outside their date's window, or on a date with no window at all.
type OrphanScan struct {
	store  domain.AvailabilityStore
	ledger domain.Ledger
	audit  *audit.Dispatcher
	log    *zap.Logger
	now    func() time.Time
	days   int
}

type OrphanScanConfig struct {
	Days int
	Now  func() time.Time
}

func NewOrphanScan(
	store domain.AvailabilityStore,
	ledger domain.Ledger,
	auditor *audit.Dispatcher,
	log *zap.Logger,
	cfg OrphanScanConfig,
) *OrphanScan {
	if cfg.Days <= 0 {
		cfg.Days = 14
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &OrphanScan{
		store:  store,
		ledger: ledger,
		audit:  auditor,
		log:    log.Named("orphan_scan"),
		now:    cfg.Now,
		days:   cfg.Days,
	}
}

// Run scans today and the following days and returns what it flagged.
func (j *OrphanScan) Run(ctx context.Context) ([]models.Appointment, error) {
	today := j.now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var flagged []models.Appointment
	for i := 0; i < j.days; i++ {
		if err := ctx.Err(); err != nil {
			return flagged, err
		}

		date := timezone.FormatDate(today.AddDate(0, 0, i))
		w, booked, err := domain.Snapshot(ctx, j.store, j.ledger, date)
		if err != nil {
			return flagged, fmt.Errorf("scan %s: %w", date, err)
		}

		for _, ap := range domain.OutsideWindow(w, booked) {
			j.log.Warn("appointment outside availability window",
				zap.String("appointment_id", ap.ID.String()),
				zap.String("date", ap.Date),
				zap.String("start", timezone.FormatClock(ap.StartTime)),
				zap.String("status", ap.Status),
				zap.Bool("window_exists", w != nil),
			)
			j.audit.Dispatch(audit.Event{
				Actor:    "system:orphan_scan",
				Action:   "appointment_outside_window",
				Entity:   "appointment",
				EntityID: ap.ID.String(),
				Metadata: map[string]any{
					"date":          ap.Date,
					"start":         timezone.FormatClock(ap.StartTime),
					"window_exists": w != nil,
				},
			})
			flagged = append(flagged, ap)
		}
	}

	j.log.Info("scan finished", zap.Int("days", j.days), zap.Int("flagged", len(flagged)))
	return flagged, nil
}

// Schedule starts a cron runner firing the scan on spec (standard
// five-field syntax). Stop the returned runner on shutdown.
func Schedule(spec string, job *OrphanScan) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := job.Run(ctx); err != nil {
			job.log.Error("scan failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule orphan scan %q: %w", spec, err)
	}

	c.Start()
	return c, nil
}
