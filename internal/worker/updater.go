package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/finance"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
)

// Totals summarizes one update pass.
type Totals struct {
	Inserted  int
	Refreshed int
	Skipped   int
}

// Updater fills the gaps an Analyzer found by fetching rates from a
// source and inserting them through the finance repository.
type Updater struct {
	repo   *finance.Repository
	source RateSource
	events Events
	logger *log.Logger
}

func NewUpdater(repo *finance.Repository, source RateSource, events Events) *Updater {
	return &Updater{
		repo:   repo,
		source: source,
		events: events,
		logger: log.New(log.Config{Component: log.ComponentWorker}),
	}
}

// Apply works through the plans. Dates the source cannot serve are
// counted as skipped, never treated as fatal. Cancellation is checked
// between dates so shutdown stays prompt.
func (u *Updater) Apply(ctx context.Context, plans []Plan) (Totals, error) {
	var totals Totals
	for _, plan := range plans {
		inserted, err := u.fillMissing(ctx, plan, &totals)
		if err != nil {
			return totals, err
		}
		refreshed, err := u.refreshRecent(ctx, plan, &totals)
		if err != nil {
			return totals, err
		}
		u.events.progress(fmt.Sprintf("%s: %d rates added, %d refreshed", plan.Currency.Code, inserted, refreshed))
	}
	u.logger.Info("update pass finished",
		"inserted", totals.Inserted,
		"refreshed", totals.Refreshed,
		"skipped", totals.Skipped)
	return totals, nil
}

func (u *Updater) fillMissing(ctx context.Context, plan Plan, totals *Totals) (int, error) {
	inserted := 0
	for _, date := range plan.Missing {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}
		rate, err := u.source.Rate(ctx, plan.Currency.Code, date)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return inserted, err
			}
			totals.Skipped++
			continue
		}
		if err := u.repo.AddExchangeRate(ctx, plan.Currency.ID, plan.BaseID, rate, date); err != nil {
			u.logger.Warn("rate insert failed",
				log.FieldCurrency, plan.Currency.Code,
				log.FieldDate, date,
				log.FieldError, err)
			totals.Skipped++
			continue
		}
		totals.Inserted++
		inserted++
		u.events.rateAdded(plan.Currency.Code, rate, date)
	}
	return inserted, nil
}

// refreshRecent re-fetches the newest stored observations and replaces
// any whose value changed at the source.
func (u *Updater) refreshRecent(ctx context.Context, plan Plan, totals *Totals) (int, error) {
	refreshed := 0
	for _, record := range plan.Refresh {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		rate, err := u.source.Rate(ctx, plan.Currency.Code, record.Date)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return refreshed, err
			}
			continue
		}
		// Compare at stored precision so an unchanged rate is not
		// rewritten on every pass.
		if float64(int64(rate*100))/100 == record.Rate {
			continue
		}
		if err := u.repo.DeleteExchangeRate(ctx, record.ID); err != nil {
			return refreshed, err
		}
		if err := u.repo.AddExchangeRate(ctx, plan.Currency.ID, plan.BaseID, rate, record.Date); err != nil {
			return refreshed, err
		}
		totals.Refreshed++
		refreshed++
		u.events.rateAdded(plan.Currency.Code, rate, record.Date)
	}
	return refreshed, nil
}

// Run is one full analyze-then-apply cycle.
func Run(ctx context.Context, repo *finance.Repository, source RateSource, events Events) (Totals, error) {
	plans, err := NewAnalyzer(repo, events).Analyze(ctx)
	if err != nil {
		return Totals{}, err
	}
	return NewUpdater(repo, source, events).Apply(ctx, plans)
}
