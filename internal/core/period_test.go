package core

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGroupByPeriodDaysSum(t *testing.T) {
	rows := []RawPoint{
		{"2024-01-03", "2"},
		{"2024-01-01", "5"},
		{"2024-01-03", "3.5"},
	}
	points, skipped := GroupByPeriod(rows, PeriodDays, ValueFloat, AggregateSum)
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	want := []Point{
		{day(2024, 1, 1), 5},
		{day(2024, 1, 3), 5.5},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(points), len(want))
	}
	for i := range want {
		if !points[i].Bucket.Equal(want[i].Bucket) || points[i].Value != want[i].Value {
			t.Fatalf("bucket %d = %v/%v, want %v/%v", i, points[i].Bucket, points[i].Value, want[i].Bucket, want[i].Value)
		}
	}
}

func TestGroupByPeriodMonthsCollapses(t *testing.T) {
	rows := []RawPoint{
		{"2024-06-01", "100"},
		{"2024-06-15", "50"},
	}
	points, _ := GroupByPeriod(rows, PeriodMonths, ValueFloat, AggregateSum)
	if len(points) != 1 {
		t.Fatalf("got %d buckets, want 1", len(points))
	}
	if !points[0].Bucket.Equal(day(2024, 6, 1)) {
		t.Fatalf("bucket = %v, want 2024-06-01", points[0].Bucket)
	}
	if points[0].Value != 150 {
		t.Fatalf("value = %v, want 150", points[0].Value)
	}
}

func TestGroupByPeriodYears(t *testing.T) {
	rows := []RawPoint{
		{"2023-12-31", "1"},
		{"2024-01-01", "2"},
		{"2024-11-30", "3"},
	}
	points, _ := GroupByPeriod(rows, PeriodYears, ValueInt, AggregateSum)
	if len(points) != 2 {
		t.Fatalf("got %d buckets, want 2", len(points))
	}
	if !points[0].Bucket.Equal(day(2023, 1, 1)) || points[0].Value != 1 {
		t.Fatalf("2023 bucket = %+v", points[0])
	}
	if !points[1].Bucket.Equal(day(2024, 1, 1)) || points[1].Value != 5 {
		t.Fatalf("2024 bucket = %+v", points[1])
	}
}

func TestGroupByPeriodMax(t *testing.T) {
	rows := []RawPoint{
		{"2024-06-01", "100"},
		{"2024-06-15", "50"},
		{"2024-06-20", "75"},
	}
	points, _ := GroupByPeriod(rows, PeriodMonths, ValueFloat, AggregateMax)
	if len(points) != 1 || points[0].Value != 100 {
		t.Fatalf("points = %+v, want single bucket with 100", points)
	}
}

func TestGroupByPeriodSkipsMalformedRows(t *testing.T) {
	rows := []RawPoint{
		{"2024-01-01", "5"},
		{"not-a-date", "5"},
		{"2024-02-30", "5"},  // impossible calendar day
		{"2024-01-02", "abc"},
		{"2024-1-2", "5"}, // wrong width
	}
	points, skipped := GroupByPeriod(rows, PeriodDays, ValueFloat, AggregateSum)
	if skipped != 4 {
		t.Fatalf("skipped = %d, want 4", skipped)
	}
	if len(points) != 1 || points[0].Value != 5 {
		t.Fatalf("points = %+v, want one valid bucket", points)
	}
}

func TestGroupByPeriodIntKindRejectsFractions(t *testing.T) {
	rows := []RawPoint{
		{"2024-01-01", "3"},
		{"2024-01-01", "2.5"},
	}
	points, skipped := GroupByPeriod(rows, PeriodDays, ValueInt, AggregateSum)
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if points[0].Value != 3 {
		t.Fatalf("value = %v, want 3", points[0].Value)
	}
}

func TestGroupByPeriodEmpty(t *testing.T) {
	points, skipped := GroupByPeriod(nil, PeriodDays, ValueFloat, AggregateSum)
	if len(points) != 0 || skipped != 0 {
		t.Fatalf("got %v/%d, want empty", points, skipped)
	}
}

func TestNextBucketMonthRollover(t *testing.T) {
	next := NextBucket(day(2024, 12, 1), PeriodMonths)
	if !next.Equal(day(2025, 1, 1)) {
		t.Fatalf("next = %v, want 2025-01-01", next)
	}
}

func TestParsePeriod(t *testing.T) {
	for name, want := range map[string]Period{
		"Days": PeriodDays, "Months": PeriodMonths, "Years": PeriodYears,
	} {
		got, err := ParsePeriod(name)
		if err != nil || got != want {
			t.Fatalf("ParsePeriod(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParsePeriod("Decades"); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestIsValidDate(t *testing.T) {
	cases := map[string]bool{
		"2024-01-01": true,
		"2024-02-29": true,
		"2023-02-29": false,
		"2024-13-01": false,
		"2024-04-31": false,
		"24-01-01":   false,
		"":           false,
	}
	for s, want := range cases {
		if got := IsValidDate(s); got != want {
			t.Errorf("IsValidDate(%q) = %v, want %v", s, got, want)
		}
	}
}
