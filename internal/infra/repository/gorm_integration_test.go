package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/barber-slots/internal/db"
	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

// openTestDB connects to TEST_DATABASE_URL and empties the booking tables.
// Tests are skipped when the variable is not set.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec("TRUNCATE appointments, availability_windows, audit_logs CASCADE").Error; err != nil {
		t.Fatalf("truncate: %v", err)
	}

	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func guestRequester(i int) domain.GuestDetails {
	return domain.GuestDetails{
		Name:  fmt.Sprintf("Guest %d", i),
		Email: fmt.Sprintf("guest%d@example.com", i),
		Phone: "1144445555",
	}
}

// decideAt mirrors the booking use case: the slot must be free in the
// window seen under the lock.
func decideAt(start time.Time, r domain.Requester) domain.BookingDecision {
	return func(wm *models.AvailabilityWindow, booked []models.Appointment) (*models.Appointment, error) {
		if wm == nil {
			return nil, domain.ErrNoWindow
		}
		w, err := domain.WindowFromModel(wm)
		if err != nil {
			return nil, err
		}
		if !domain.IsFree(&w, booked, start) {
			return nil, domain.ErrSlotNotAvailable
		}
		return domain.New(start, w.Duration, r, "", start), nil
	}
}

func TestGormConcurrentBooking(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	windows := NewAvailabilityGormRepository(db)
	ledger := NewAppointmentGormRepository(db)

	if _, _, err := windows.SetWindow(ctx, &models.AvailabilityWindow{
		Date: "2030-06-03", OpenTime: "09:00", CloseTime: "18:00", SlotDurationMinutes: 60,
	}); err != nil {
		t.Fatalf("set window: %v", err)
	}

	start := time.Date(2030, 6, 3, 10, 0, 0, 0, time.UTC)

	const n = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		conflict int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := ledger.Book(ctx, "2030-06-03", decideAt(start, guestRequester(i)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, domain.ErrSlotNotAvailable):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if winners != 1 || conflict != n-1 {
		t.Fatalf("expected one winner, got %d winners and %d conflicts", winners, conflict)
	}

	active, err := ledger.ListActiveForDate(ctx, "2030-06-03")
	if err != nil || len(active) != 1 {
		t.Fatalf("expected one stored appointment, got %d (%v)", len(active), err)
	}
	if !active[0].StartTime.Equal(start) || !active[0].EndTime.Equal(start.Add(time.Hour)) {
		t.Fatalf("times did not round-trip: %s - %s", active[0].StartTime, active[0].EndTime)
	}
}

func TestGormExclusionConstraintBacksTheLedger(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	windows := NewAvailabilityGormRepository(db)
	ledger := NewAppointmentGormRepository(db)

	if _, _, err := windows.SetWindow(ctx, &models.AvailabilityWindow{
		Date: "2030-06-03", OpenTime: "09:00", CloseTime: "18:00", SlotDurationMinutes: 60,
	}); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2030, 6, 3, 9, 0, 0, 0, time.UTC)
	if _, err := ledger.Book(ctx, "2030-06-03", decideAt(start, guestRequester(1))); err != nil {
		t.Fatal(err)
	}

	// A decision that skips the free-slot check is still stopped by the table.
	overlapping := start.Add(30 * time.Minute)
	_, err := ledger.Book(ctx, "2030-06-03", func(*models.AvailabilityWindow, []models.Appointment) (*models.Appointment, error) {
		return domain.New(overlapping, time.Hour, guestRequester(2), "", overlapping), nil
	})
	if !errors.Is(err, domain.ErrSlotNotAvailable) {
		t.Fatalf("expected the exclusion constraint to reject the overlap, got %v", err)
	}
}

func TestGormStatusTransitionsAndWindows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	windows := NewAvailabilityGormRepository(db)
	ledger := NewAppointmentGormRepository(db)

	if _, _, err := windows.SetWindow(ctx, &models.AvailabilityWindow{
		Date: "2030-06-03", OpenTime: "09:00", CloseTime: "18:00", SlotDurationMinutes: 60,
	}); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2030, 6, 3, 16, 0, 0, 0, time.UTC)
	ap, err := ledger.Book(ctx, "2030-06-03", decideAt(start, guestRequester(1)))
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2030, 6, 1, 8, 0, 0, 0, time.UTC)
	if _, err := ledger.UpdateStatus(ctx, ap.ID, func(a *models.Appointment) error {
		return domain.Confirm(a, now)
	}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	_, err = ledger.UpdateStatus(ctx, ap.ID, func(a *models.Appointment) error {
		return domain.Confirm(a, now)
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	saved, active, err := windows.SetWindow(ctx, &models.AvailabilityWindow{
		Date: "2030-06-03", OpenTime: "09:00", CloseTime: "13:00", SlotDurationMinutes: 60,
	})
	if err != nil {
		t.Fatal(err)
	}
	if saved.CloseTime != "13:00" || len(active) != 1 {
		t.Fatalf("upsert failed: %+v, %d active", saved, len(active))
	}

	list, err := windows.ListWindows(ctx, "2030-06-01", "2030-06-30")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one window, got %d (%v)", len(list), err)
	}

	stored, err := ledger.GetAppointment(ctx, ap.ID)
	if err != nil || stored.Status != string(domain.StatusConfirmed) || !stored.EndTime.Equal(ap.EndTime) {
		t.Fatalf("window edits must not touch appointments: %+v (%v)", stored, err)
	}

	counts, err := ledger.CountByStatus(ctx, time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC))
	if err != nil || counts[domain.StatusConfirmed] != 1 {
		t.Fatalf("unexpected counts %v (%v)", counts, err)
	}

	if removed, _, err := windows.DeleteWindow(ctx, "2030-06-03"); err != nil || removed == nil {
		t.Fatalf("delete window: %v", err)
	}
	if w, err := windows.GetWindow(ctx, "2030-06-03"); err != nil || w != nil {
		t.Fatalf("window should be gone: %+v (%v)", w, err)
	}

	if _, err := ledger.GetAppointment(ctx, domain.New(start, time.Hour, guestRequester(9), "", now).ID); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
