package core

import (
	"fmt"
	"math"
	"strings"
)

// NoDataSummary is returned when no real observations survive filtering.
const NoDataSummary = "no data"

// Stats is the four-number summary of a series.
type Stats struct {
	Min   float64
	Max   float64
	Avg   float64
	Total float64
	// Count is the number of real observations the stats were computed from.
	Count int
	// Integer reports that every surviving value was an exact integer, which
	// switches the display format for min/max/total.
	Integer bool
}

// ComputeStats summarizes values, excluding the zero sentinel. Zero means
// "no activity that day" across all trackers, not a measured minimum, so
// it never participates in statistics. ok is false when nothing survives.
func ComputeStats(values []float64) (s Stats, ok bool) {
	for _, v := range values {
		if v == 0 {
			continue
		}
		if s.Count == 0 {
			s.Min, s.Max = v, v
			s.Integer = true
		}
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		s.Total += v
		if v != math.Trunc(v) {
			s.Integer = false
		}
		s.Count++
	}
	if s.Count == 0 {
		return Stats{}, false
	}
	s.Avg = s.Total / float64(s.Count)
	return s, true
}

// Format renders the summary line shown next to a chart, e.g.
// "Min: 10 kg | Max: 20 kg | Avg: 15.0 kg | Total: 45 kg".
func (s Stats) Format(unit string) string {
	suffix := ""
	if unit != "" {
		suffix = " " + unit
	}
	num := func(v float64) string {
		if s.Integer {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%.1f", v)
	}
	parts := []string{
		fmt.Sprintf("Min: %s%s", num(s.Min), suffix),
		fmt.Sprintf("Max: %s%s", num(s.Max), suffix),
		fmt.Sprintf("Avg: %.1f%s", s.Avg, suffix),
		fmt.Sprintf("Total: %s%s", num(s.Total), suffix),
	}
	return strings.Join(parts, " | ")
}

// Summarize computes and formats statistics over raw values, ignoring the
// zero sentinel. It reports NoDataSummary instead of dividing by zero.
func Summarize(values []float64, unit string) string {
	s, ok := ComputeStats(values)
	if !ok {
		return NoDataSummary
	}
	return s.Format(unit)
}

// SummarizeSeries is Summarize over a gap-filled series; absent buckets
// are excluded alongside the zero sentinel.
func SummarizeSeries(series []SeriesPoint, unit string) string {
	values := make([]float64, 0, len(series))
	for _, p := range series {
		if p.Present {
			values = append(values, p.Value)
		}
	}
	return Summarize(values, unit)
}
