package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// Tracker databases
	FinanceDBPath string
	FitnessDBPath string
	FoodDBPath    string

	// Exchange rates
	RatesFile     string
	RatesInterval time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		FinanceDBPath: getEnv("FINANCE_DB_PATH", "./data/finance.db"),
		FitnessDBPath: getEnv("FITNESS_DB_PATH", "./data/fitness.db"),
		FoodDBPath:    getEnv("FOOD_DB_PATH", "./data/food.db"),

		RatesFile:     getEnv("RATES_FILE", "./data/rates.json"),
		RatesInterval: getEnvDuration("RATES_INTERVAL", time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	dbPaths := map[string]string{
		"finance": c.FinanceDBPath,
		"fitness": c.FitnessDBPath,
		"food":    c.FoodDBPath,
	}
	for name, path := range dbPaths {
		if path == "" {
			errors = append(errors, fmt.Sprintf("%s database path cannot be empty", name))
			continue
		}
		// Check if directory exists or can be created
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create %s database directory '%s': %v", name, dir, err))
				}
			}
		}
	}

	if c.RatesFile == "" {
		errors = append(errors, "rates file path cannot be empty")
	}

	if c.RatesInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid rates interval %v: must be at least 1 second", c.RatesInterval))
	} else if c.RatesInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid rates interval %v: must be at most 24 hours", c.RatesInterval))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if c.LogLevel == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
