package finance

import (
	"context"
	"fmt"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
)

// ChartService builds money chart series from the transaction log.
type ChartService struct {
	repo *Repository
}

func NewChartService(repo *Repository) *ChartService {
	return &ChartService{repo: repo}
}

// TransactionsChart charts per-bucket amount sums in the target currency.
// categoryType narrows to expenses or income; CategoryAny charts both.
// The end date is capped at today.
func (s *ChartService) TransactionsChart(ctx context.Context, currencyID int64, categoryType int, period core.Period, from, to string) (core.Series, error) {
	to = core.CapToToday(to)
	rows, err := s.repo.TransactionsChartData(ctx, currencyID, categoryType, from, to)
	if err != nil {
		return core.Series{}, fmt.Errorf("transactions chart: %w", err)
	}

	unit := ""
	if currency, ok, err := s.repo.CurrencyByID(ctx, currencyID); err == nil && ok {
		unit = currency.Code
	}
	return core.BuildSeries(rows, period, core.ValueFloat, core.AggregateSum, from, to, unit), nil
}
