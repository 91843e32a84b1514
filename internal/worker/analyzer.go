package worker

import (
	"context"
	"fmt"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/finance"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
)

// BaseCurrencyCode is the currency all exchange rates are stored against.
const BaseCurrencyCode = "USD"

// refreshDepth is how many of the newest stored rates per currency get
// re-fetched on every run, so recent corrections at the source are picked up.
const refreshDepth = 2

// Plan is the analysis result for one currency: which dates have no
// stored rate, and which recent records should be refreshed.
type Plan struct {
	Currency finance.Currency
	BaseID   int64
	Missing  []string
	Refresh  []finance.RateRecord
}

// Analyzer walks every non-base currency over the date range covered by
// recorded transactions and reports what the rate table is missing.
type Analyzer struct {
	repo   *finance.Repository
	events Events
	logger *log.Logger
}

func NewAnalyzer(repo *finance.Repository, events Events) *Analyzer {
	return &Analyzer{
		repo:   repo,
		events: events,
		logger: log.New(log.Config{Component: log.ComponentWorker}),
	}
}

// Analyze builds a plan per currency. It checks for cancellation between
// currencies and between dates, so a shutdown never waits for a full pass.
func (a *Analyzer) Analyze(ctx context.Context) ([]Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	earliest, ok := a.repo.EarliestTransactionDate(ctx)
	if !ok {
		a.events.progress("no transactions recorded, nothing to analyze")
		return nil, nil
	}
	start, err := core.ParseDate(earliest)
	if err != nil {
		return nil, fmt.Errorf("earliest transaction date: %w", err)
	}

	base, found, err := a.repo.CurrencyByCode(ctx, BaseCurrencyCode)
	if err != nil {
		return nil, err
	}
	if !found {
		a.events.progress("base currency not registered, nothing to analyze")
		return nil, nil
	}

	currencies, err := a.repo.GetAllCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	today, err := core.ParseDate(core.Today())
	if err != nil {
		return nil, err
	}

	var plans []Plan
	for _, cur := range currencies {
		if cur.ID == base.ID {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a.events.progress(fmt.Sprintf("checking %s rates", cur.Code))

		plan := Plan{Currency: cur, BaseID: base.ID}
		for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			date := core.FormatDate(d)
			if !a.repo.ExchangeRateExists(ctx, cur.ID, base.ID, date) {
				plan.Missing = append(plan.Missing, date)
			}
		}

		records, err := a.repo.LastRateRecords(ctx, cur.ID, base.ID, refreshDepth)
		if err != nil {
			return nil, err
		}
		plan.Refresh = records

		a.events.currencyAnalyzed(cur.Code, len(plan.Missing), len(plan.Refresh))
		a.logger.Info("currency analyzed",
			log.FieldCurrency, cur.Code,
			"missing", len(plan.Missing),
			"refresh", len(plan.Refresh))
		plans = append(plans, plan)
	}
	return plans, nil
}
