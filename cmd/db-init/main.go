// Command db-init creates the tracker databases and brings their schemas
// up to date, so the other tools start against a ready data directory.
package main

import (
	"context"
	"os"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/cli"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/config"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/finance"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/tracker"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	registry, err := tracker.OpenAll(cfg)
	if err != nil {
		logger.Error("database initialization failed", log.FieldError, err)
		os.Exit(1)
	}
	defer registry.Close()

	ctx := context.Background()
	seedDefaultCurrency(ctx, registry.Finance, logger)

	for _, kind := range tracker.Kinds() {
		logger.Info("database ready",
			"tracker", kind.String(),
			log.FieldPath, tracker.DBPath(cfg, kind))
	}
}

// seedDefaultCurrency registers the fallback currency so a fresh finance
// database can record transactions immediately.
func seedDefaultCurrency(ctx context.Context, repo *finance.Repository, logger *log.Logger) {
	code := finance.FallbackCurrency
	if _, ok, err := repo.CurrencyByCode(ctx, code); err != nil || ok {
		return
	}
	if err := repo.AddCurrency(ctx, code, code, ""); err != nil {
		logger.Warn("could not seed default currency", log.FieldCurrency, code, log.FieldError, err)
		return
	}
	if err := repo.SetDefaultCurrency(ctx, code); err != nil {
		logger.Warn("could not set default currency", log.FieldCurrency, code, log.FieldError, err)
	}
}
