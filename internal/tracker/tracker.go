// Package tracker enumerates the tracker databases and opens them as a
// set.
package tracker

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/config"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/finance"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/fitness"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/food"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
)

type Kind int

const (
	KindFinance Kind = iota
	KindFitness
	KindFood
)

func (k Kind) String() string {
	switch k {
	case KindFinance:
		return "finance"
	case KindFitness:
		return "fitness"
	case KindFood:
		return "food"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "finance":
		return KindFinance, nil
	case "fitness":
		return KindFitness, nil
	case "food":
		return KindFood, nil
	default:
		return 0, fmt.Errorf("unknown tracker kind %q", s)
	}
}

// Kinds lists every tracker.
func Kinds() []Kind {
	return []Kind{KindFinance, KindFitness, KindFood}
}

// DBPath returns the configured database path for a tracker.
func DBPath(cfg *config.Config, kind Kind) string {
	switch kind {
	case KindFinance:
		return cfg.FinanceDBPath
	case KindFitness:
		return cfg.FitnessDBPath
	case KindFood:
		return cfg.FoodDBPath
	default:
		return ""
	}
}

// Registry holds one open repository per tracker.
type Registry struct {
	Finance *finance.Repository
	Fitness *fitness.Repository
	Food    *food.Repository

	logger *log.Logger
}

// OpenAll opens every tracker database, bootstrapping schemas as needed.
// The databases are separate files, so they open concurrently. On
// failure, already-opened repositories are closed before returning.
func OpenAll(cfg *config.Config) (*Registry, error) {
	r := &Registry{logger: log.New(log.Config{Component: log.ComponentTracker})}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		if r.Finance, err = finance.Open(cfg.FinanceDBPath); err != nil {
			return fmt.Errorf("open finance tracker: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if r.Fitness, err = fitness.Open(cfg.FitnessDBPath); err != nil {
			return fmt.Errorf("open fitness tracker: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if r.Food, err = food.Open(cfg.FoodDBPath); err != nil {
			return fmt.Errorf("open food tracker: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		r.closeOpened()
		return nil, err
	}

	r.logger.Info("trackers opened",
		"finance", cfg.FinanceDBPath,
		"fitness", cfg.FitnessDBPath,
		"food", cfg.FoodDBPath)
	return r, nil
}

func (r *Registry) closeOpened() {
	if r.Finance != nil {
		r.Finance.Close()
	}
	if r.Fitness != nil {
		r.Fitness.Close()
	}
	if r.Food != nil {
		r.Food.Close()
	}
}

// Close closes every tracker database.
func (r *Registry) Close() error {
	return errors.Join(r.Finance.Close(), r.Fitness.Close(), r.Food.Close())
}
