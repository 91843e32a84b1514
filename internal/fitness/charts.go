package fitness

import (
	"context"
	"fmt"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
)

// ChartService turns repository rows into chart-ready series: group by
// period, fill gaps over the requested range, summarize. The requested end
// date is capped at today so charts never run into the future.
type ChartService struct {
	repo *Repository
}

func NewChartService(repo *Repository) *ChartService {
	return &ChartService{repo: repo}
}

// ExerciseChart charts one exercise's logged values, summed per bucket.
func (s *ChartService) ExerciseChart(ctx context.Context, exercise, exerciseType string, period core.Period, from, to string) (core.Series, error) {
	to = core.CapToToday(to)
	rows, err := s.repo.ExerciseChartData(ctx, exercise, exerciseType, from, to)
	if err != nil {
		return core.Series{}, fmt.Errorf("exercise chart: %w", err)
	}
	unit := s.repo.ExerciseUnit(ctx, exercise)
	return core.BuildSeries(rows, period, core.ValueFloat, core.AggregateSum, from, to, unit), nil
}

// SetsChart charts the number of sets per bucket across all exercises.
func (s *ChartService) SetsChart(ctx context.Context, period core.Period, from, to string) (core.Series, error) {
	to = core.CapToToday(to)
	rows, err := s.repo.SetsChartData(ctx, from, to)
	if err != nil {
		return core.Series{}, fmt.Errorf("sets chart: %w", err)
	}
	return core.BuildSeries(rows, period, core.ValueInt, core.AggregateSum, from, to, "times"), nil
}

// WeightChart charts body weight, keeping the maximum per bucket.
func (s *ChartService) WeightChart(ctx context.Context, period core.Period, from, to string) (core.Series, error) {
	to = core.CapToToday(to)
	rows, err := s.repo.WeightChartData(ctx, from, to)
	if err != nil {
		return core.Series{}, fmt.Errorf("weight chart: %w", err)
	}
	return core.BuildSeries(rows, period, core.ValueFloat, core.AggregateMax, from, to, "kg"), nil
}
