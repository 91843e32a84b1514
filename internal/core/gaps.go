package core

import "time"

// SeriesPoint is one entry of a gap-filled series. Present is false for
// buckets that have no underlying data; Value is meaningless in that case.
type SeriesPoint struct {
	Bucket  time.Time
	Value   float64
	Present bool
}

// FillGaps expands sparse aggregated points into a contiguous series with
// an explicit absent marker for every bucket that has no data.
//
// When a from/to range is supplied (YYYY-MM-DD, empty string means open),
// the start is clamped to the first bucket with real data: a leading run
// of absent buckets would suggest a tracked-but-empty history that never
// existed. The end follows the requested range; callers that must not run
// past today cap `to` themselves before calling. Without a range the
// series spans the actual data range. An inverted range after clamping
// yields an empty series.
func FillGaps(points []Point, period Period, from, to string) []SeriesPoint {
	if len(points) == 0 {
		return nil
	}

	values := make(map[time.Time]float64, len(points))
	actualStart := points[0].Bucket
	actualEnd := points[0].Bucket
	for _, p := range points {
		values[p.Bucket] = p.Value
		if p.Bucket.Before(actualStart) {
			actualStart = p.Bucket
		}
		if p.Bucket.After(actualEnd) {
			actualEnd = p.Bucket
		}
	}

	start, end := actualStart, actualEnd
	if from != "" && to != "" {
		userStart, err1 := ParseDate(from)
		userEnd, err2 := ParseDate(to)
		if err1 == nil && err2 == nil {
			userStart = BucketStart(userStart, period)
			userEnd = BucketStart(userEnd, period)
			// Never extend before the first real observation.
			if userStart.After(start) {
				start = userStart
			}
			end = userEnd
		}
	}

	start = BucketStart(start, period)
	end = BucketStart(end, period)
	if start.After(end) {
		return nil
	}

	var series []SeriesPoint
	for cur := start; !cur.After(end); cur = NextBucket(cur, period) {
		value, ok := values[cur]
		series = append(series, SeriesPoint{Bucket: cur, Value: value, Present: ok})
	}
	return series
}
