package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Period selects the bucket granularity used to group log rows for charting.
type Period int

const (
	PeriodDays Period = iota
	PeriodMonths
	PeriodYears
)

func (p Period) String() string {
	switch p {
	case PeriodDays:
		return "Days"
	case PeriodMonths:
		return "Months"
	case PeriodYears:
		return "Years"
	}
	return fmt.Sprintf("Period(%d)", int(p))
}

// ParsePeriod converts the UI-facing period name into a Period.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(s) {
	case "days", "day":
		return PeriodDays, nil
	case "months", "month":
		return PeriodMonths, nil
	case "years", "year":
		return PeriodYears, nil
	}
	return PeriodDays, fmt.Errorf("unknown period %q", s)
}

// ValueKind declares how the raw value column is parsed.
type ValueKind int

const (
	ValueFloat ValueKind = iota
	ValueInt
)

// AggregateMode selects how values falling into the same bucket combine.
type AggregateMode int

const (
	// AggregateSum totals every value in the bucket (calories, amounts, set counts).
	AggregateSum AggregateMode = iota
	// AggregateMax keeps the best single value in the bucket.
	AggregateMax
)

// RawPoint is one (date, value) pair exactly as read from the store.
type RawPoint struct {
	Date  string
	Value string
}

// Point is one aggregated bucket. Bucket is the normalized period start:
// the day itself, the first of the month, or the first of the year.
type Point struct {
	Bucket time.Time
	Value  float64
}

// BucketStart normalizes t to the start of its period.
func BucketStart(t time.Time, p Period) time.Time {
	switch p {
	case PeriodMonths:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYears:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextBucket steps one period forward from a normalized bucket start.
func NextBucket(t time.Time, p Period) time.Time {
	switch p {
	case PeriodMonths:
		if t.Month() == time.December {
			return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	case PeriodYears:
		return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return t.AddDate(0, 0, 1)
}

// GroupByPeriod folds raw (date, value) rows into ordered period buckets.
//
// Rows whose date is not a valid YYYY-MM-DD day or whose value does not
// parse as kind are skipped, not fatal: dirty historical rows must never
// block charting. The number of skipped rows is returned for diagnostics.
// The result is sorted ascending by bucket.
func GroupByPeriod(rows []RawPoint, period Period, kind ValueKind, mode AggregateMode) (points []Point, skipped int) {
	grouped := make(map[time.Time]float64, len(rows))

	for _, row := range rows {
		if !IsValidDate(row.Date) {
			skipped++
			continue
		}
		value, err := parseValue(row.Value, kind)
		if err != nil {
			skipped++
			continue
		}
		day, err := ParseDate(row.Date)
		if err != nil {
			skipped++
			continue
		}

		key := BucketStart(day, period)
		switch mode {
		case AggregateMax:
			if cur, ok := grouped[key]; !ok || value > cur {
				grouped[key] = value
			}
		default:
			grouped[key] += value
		}
	}

	points = make([]Point, 0, len(grouped))
	for bucket, value := range grouped {
		points = append(points, Point{Bucket: bucket, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Bucket.Before(points[j].Bucket) })
	return points, skipped
}

func parseValue(s string, kind ValueKind) (float64, error) {
	s = strings.TrimSpace(s)
	if kind == ValueInt {
		n, err := strconv.ParseInt(s, 10, 64)
		return float64(n), err
	}
	return strconv.ParseFloat(s, 64)
}
