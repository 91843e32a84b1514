package core

// Series is a gap-filled chart series with its statistics line.
type Series struct {
	Points  []SeriesPoint
	Summary string
	Skipped int
}

// BuildSeries runs the full chart pipeline over raw rows: group by period,
// fill gaps across [from, to], summarize the surviving values.
func BuildSeries(rows []RawPoint, period Period, kind ValueKind, mode AggregateMode, from, to, unit string) Series {
	points, skipped := GroupByPeriod(rows, period, kind, mode)
	series := FillGaps(points, period, from, to)
	return Series{
		Points:  series,
		Summary: SummarizeSeries(series, unit),
		Skipped: skipped,
	}
}

// CapToToday bounds a requested end date at today, so charts never run
// into the future. ISO dates compare lexicographically.
func CapToToday(to string) string {
	today := Today()
	if IsValidDate(to) && to > today {
		return today
	}
	return to
}
