package main

import (
	"context"
	"errors"
	"time"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/cache"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/cli"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/config"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/finance"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/worker"
)

const cacheCleanupInterval = 10 * time.Minute

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		return
	}

	logger.Info("starting rates-worker",
		"finance_db", cfg.FinanceDBPath,
		"rates_file", cfg.RatesFile,
		"interval", cfg.RatesInterval)

	repo, err := finance.Open(cfg.FinanceDBPath)
	if err != nil {
		logger.Error("failed to open finance database", log.FieldError, err, log.FieldPath, cfg.FinanceDBPath)
		return
	}
	defer repo.Close()

	caches := cache.NewManager()
	caches.Register(repo.RateCache())
	caches.StartCleanup(cacheCleanupInterval)
	defer caches.Stop()

	source := worker.NewFileSource(cfg.RatesFile)
	events := worker.Events{
		Progress: func(msg string) {
			logger.Debug(msg)
		},
		RateAdded: func(code string, rate float64, date string) {
			logger.Info("rate added", log.FieldCurrency, code, "rate", rate, log.FieldDate, date)
		},
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	runOnce := func() {
		totals, err := worker.Run(ctx, repo, source, events)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("rate sync failed", log.FieldError, err)
			return
		}
		logger.Info("rate sync complete",
			"inserted", totals.Inserted,
			"refreshed", totals.Refreshed,
			"skipped", totals.Skipped)
	}

	runOnce()

	ticker := time.NewTicker(cfg.RatesInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
