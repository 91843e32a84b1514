package tracker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		FinanceDBPath: filepath.Join(dir, "finance.db"),
		FitnessDBPath: filepath.Join(dir, "fitness.db"),
		FoodDBPath:    filepath.Join(dir, "food.db"),
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"finance", KindFinance, false},
		{"fitness", KindFitness, false},
		{"food", KindFood, false},
		{"notes", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		parsed, err := ParseKind(kind.String())
		if err != nil || parsed != kind {
			t.Errorf("round trip %v: parsed=%v err=%v", kind, parsed, err)
		}
	}
}

func TestOpenAll(t *testing.T) {
	cfg := testConfig(t)

	registry, err := OpenAll(cfg)
	if err != nil {
		t.Fatalf("open all: %v", err)
	}
	defer registry.Close()

	// Each repository is usable after the schema bootstrap.
	ctx := context.Background()
	if _, err := registry.Finance.GetAllCurrencies(ctx); err != nil {
		t.Errorf("finance: %v", err)
	}
	if _, err := registry.Fitness.GetAllExercises(ctx); err != nil {
		t.Errorf("fitness: %v", err)
	}
	if _, err := registry.Food.GetAllFoodItems(ctx); err != nil {
		t.Errorf("food: %v", err)
	}

	if err := registry.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestDBPath(t *testing.T) {
	cfg := testConfig(t)
	for _, kind := range Kinds() {
		if DBPath(cfg, kind) == "" {
			t.Errorf("DBPath(%v) is empty", kind)
		}
	}
}
