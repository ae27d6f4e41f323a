package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/dto"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

type MonthlyStats struct {
	ledger domain.Ledger
	now    Clock
}

func NewMonthlyStats(ledger domain.Ledger, now Clock) *MonthlyStats {
	return &MonthlyStats{ledger: ledger, now: now}
}

// Execute counts appointments starting in month (YYYY-MM); an empty month
// means the current one.
func (uc *MonthlyStats) Execute(
	ctx context.Context,
	month string,
) (*dto.MonthlyStatsDTO, error) {

	if month == "" {
		month = uc.now().Format(timezone.MonthLayout)
	}
	first, err := timezone.ParseMonth(month)
	if err != nil {
		return nil, domain.ErrInvalidDateOrTime
	}

	counts, err := uc.ledger.CountByStatus(ctx, first, first.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	stats := &dto.MonthlyStatsDTO{
		Month:     month,
		Pending:   counts[domain.StatusPending],
		Confirmed: counts[domain.StatusConfirmed],
		Cancelled: counts[domain.StatusCancelled],
	}
	stats.Total = stats.Pending + stats.Confirmed + stats.Cancelled
	return stats, nil
}
