package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoRate is returned by a RateSource when it has no rate for the
// requested currency and date.
var ErrNoRate = errors.New("worker: no rate for date")

// RateSource provides exchange rates against the base currency.
// Implementations may hit the network, a file, or a fixture.
type RateSource interface {
	// Rate returns how many base-currency units one unit of the given
	// currency is worth on the given date ("YYYY-MM-DD").
	Rate(ctx context.Context, code, date string) (float64, error)
}

// FileSource reads rates from a JSON file shaped as
//
//	{"EUR": {"2024-06-01": 1.08, ...}, ...}
//
// The file is re-read on every lookup so it can be updated while the
// worker runs.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Rate(ctx context.Context, code, date string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("read rates file: %w", err)
	}

	var rates map[string]map[string]float64
	if err := json.Unmarshal(data, &rates); err != nil {
		return 0, fmt.Errorf("parse rates file: %w", err)
	}

	byDate, ok := rates[code]
	if !ok {
		return 0, ErrNoRate
	}
	rate, ok := byDate[date]
	if !ok {
		return 0, ErrNoRate
	}
	return rate, nil
}
