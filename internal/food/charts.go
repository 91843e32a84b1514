package food

import (
	"context"
	"fmt"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
)

// ChartService builds calorie chart series from the food log.
type ChartService struct {
	repo *Repository
}

func NewChartService(repo *Repository) *ChartService {
	return &ChartService{repo: repo}
}

// KcalChart charts calories consumed per bucket. The end date is capped
// at today.
func (s *ChartService) KcalChart(ctx context.Context, period core.Period, from, to string) (core.Series, error) {
	to = core.CapToToday(to)
	rows, err := s.repo.KcalChartData(ctx, from, to)
	if err != nil {
		return core.Series{}, fmt.Errorf("kcal chart: %w", err)
	}
	return core.BuildSeries(rows, period, core.ValueFloat, core.AggregateSum, from, to, "kcal"), nil
}
