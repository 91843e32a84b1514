package finance

import (
	"context"
	"testing"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
)

func TestExchangeRateLookup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	usd := mustAddCurrency(t, repo, "USD", "$")
	eur := mustAddCurrency(t, repo, "EUR", "€")
	rub := mustAddCurrency(t, repo, "RUB", "₽")

	if err := repo.AddExchangeRate(ctx, usd, rub, 90.0, "2024-06-01"); err != nil {
		t.Fatalf("add rate: %v", err)
	}
	if err := repo.AddExchangeRate(ctx, usd, rub, 95.0, "2024-06-10"); err != nil {
		t.Fatalf("add rate: %v", err)
	}

	t.Run("same currency", func(t *testing.T) {
		if rate := repo.ExchangeRate(ctx, usd, usd, "2024-06-05"); rate != 1.0 {
			t.Fatalf("rate = %v, want 1.0", rate)
		}
	})

	t.Run("most recent on or before date", func(t *testing.T) {
		if rate := repo.ExchangeRate(ctx, usd, rub, "2024-06-05"); rate != 90.0 {
			t.Fatalf("rate = %v, want 90.0", rate)
		}
		if rate := repo.ExchangeRate(ctx, usd, rub, "2024-06-10"); rate != 95.0 {
			t.Fatalf("rate = %v, want 95.0", rate)
		}
	})

	t.Run("latest when date empty", func(t *testing.T) {
		if rate := repo.ExchangeRate(ctx, usd, rub, ""); rate != 95.0 {
			t.Fatalf("rate = %v, want 95.0", rate)
		}
	})

	t.Run("inverse fallback", func(t *testing.T) {
		rate := repo.ExchangeRate(ctx, rub, usd, "2024-06-10")
		if rate != 1.0/95.0 {
			t.Fatalf("rate = %v, want %v", rate, 1.0/95.0)
		}
	})

	t.Run("no rate defaults to 1.0", func(t *testing.T) {
		if rate := repo.ExchangeRate(ctx, usd, eur, "2024-06-10"); rate != 1.0 {
			t.Fatalf("rate = %v, want 1.0", rate)
		}
	})

	t.Run("date before any observation defaults to 1.0", func(t *testing.T) {
		if rate := repo.ExchangeRate(ctx, usd, rub, "2024-05-01"); rate != 1.0 {
			t.Fatalf("rate = %v, want 1.0", rate)
		}
	})
}

func TestExchangeRateCacheInvalidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	usd := mustAddCurrency(t, repo, "USD", "$")
	rub := mustAddCurrency(t, repo, "RUB", "₽")

	// Miss populates the cache with the 1.0 default.
	if rate := repo.ExchangeRate(ctx, usd, rub, "2024-06-05"); rate != 1.0 {
		t.Fatalf("rate = %v, want 1.0", rate)
	}

	// A write must invalidate the cached default.
	if err := repo.AddExchangeRate(ctx, usd, rub, 90.0, "2024-06-01"); err != nil {
		t.Fatal(err)
	}
	if rate := repo.ExchangeRate(ctx, usd, rub, "2024-06-05"); rate != 90.0 {
		t.Fatalf("rate after write = %v, want 90.0", rate)
	}
}

func TestExchangeRateExists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	usd := mustAddCurrency(t, repo, "USD", "$")
	rub := mustAddCurrency(t, repo, "RUB", "₽")

	if repo.ExchangeRateExists(ctx, usd, rub, "2024-06-01") {
		t.Fatal("no rate yet, want false")
	}
	if err := repo.AddExchangeRate(ctx, usd, rub, 90.0, "2024-06-01"); err != nil {
		t.Fatal(err)
	}
	if !repo.ExchangeRateExists(ctx, usd, rub, "2024-06-01") {
		t.Fatal("rate exists, want true")
	}
	if repo.ExchangeRateExists(ctx, usd, rub, "2024-06-02") {
		t.Fatal("different date, want false")
	}
}

func TestLastRateRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	usd := mustAddCurrency(t, repo, "USD", "$")
	rub := mustAddCurrency(t, repo, "RUB", "₽")

	for _, r := range []struct {
		rate float64
		date string
	}{
		{90.0, "2024-06-01"},
		{92.0, "2024-06-02"},
		{95.0, "2024-06-03"},
	} {
		if err := repo.AddExchangeRate(ctx, usd, rub, r.rate, r.date); err != nil {
			t.Fatal(err)
		}
	}

	records, err := repo.LastRateRecords(ctx, usd, rub, 2)
	if err != nil {
		t.Fatalf("last rate records: %v", err)
	}
	if len(records) != 2 || records[0].Date != "2024-06-03" || records[0].Rate != 95.0 {
		t.Fatalf("records = %+v", records)
	}

	if err := repo.DeleteExchangeRate(ctx, records[0].ID); err != nil {
		t.Fatalf("delete rate: %v", err)
	}
	records, _ = repo.LastRateRecords(ctx, usd, rub, 10)
	if len(records) != 2 {
		t.Fatalf("after delete: %d records", len(records))
	}
}

func TestCurrencyExchanges(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	usd := mustAddCurrency(t, repo, "USD", "$")
	rub := mustAddCurrency(t, repo, "RUB", "₽")

	exchange := CurrencyExchange{
		FromID:      usd,
		ToID:        rub,
		AmountFrom:  100,
		AmountTo:    9000,
		Rate:        90,
		Fee:         1.5,
		Date:        "2024-06-01",
		Description: "atm",
	}
	if err := repo.AddCurrencyExchange(ctx, exchange); err != nil {
		t.Fatalf("add exchange: %v", err)
	}

	exchanges, err := repo.GetAllCurrencyExchanges(ctx)
	if err != nil || len(exchanges) != 1 {
		t.Fatalf("exchanges = %+v, err %v", exchanges, err)
	}
	got := exchanges[0]
	if got.AmountTo != 9000 || got.Fee != 1.5 || got.Description != "atm" {
		t.Fatalf("exchange = %+v", got)
	}

	date, ok := repo.EarliestCurrencyExchangeDate(ctx)
	if !ok || date != "2024-06-01" {
		t.Fatalf("earliest = (%q, %v)", date, ok)
	}

	if err := repo.DeleteCurrencyExchange(ctx, got.ID); err != nil {
		t.Fatalf("delete exchange: %v", err)
	}
	if _, ok := repo.EarliestCurrencyExchangeDate(ctx); ok {
		t.Fatal("exchange deleted, want no earliest date")
	}
}

func TestTransactionsChartData(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	usd := mustAddCurrency(t, repo, "USD", "$")
	rub := mustAddCurrency(t, repo, "RUB", "₽")
	groceries := mustAddCategory(t, repo, "Groceries", TypeExpense)
	salary := mustAddCategory(t, repo, "Salary", TypeIncome)

	if err := repo.AddExchangeRate(ctx, usd, rub, 90.0, "2024-06-01"); err != nil {
		t.Fatal(err)
	}

	// 10 USD converts at the 2024-06-01 rate; 500 RUB passes through.
	if err := repo.AddTransaction(ctx, 10, "coffee", groceries, usd, "2024-06-02", ""); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddTransaction(ctx, 500, "bus", groceries, rub, "2024-06-02", ""); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddTransaction(ctx, 1000, "advance", salary, rub, "2024-06-03", ""); err != nil {
		t.Fatal(err)
	}

	rows, err := repo.TransactionsChartData(ctx, rub, TypeExpense, "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("chart data: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != "2024-06-02" {
		t.Fatalf("rows = %+v", rows)
	}
	// 10 USD * 90 + 500 RUB = 1400 RUB.
	if rows[0].Value != "1400" {
		t.Fatalf("value = %q, want 1400", rows[0].Value)
	}

	all, err := repo.TransactionsChartData(ctx, rub, CategoryAny, "2024-06-01", "2024-06-03")
	if err != nil || len(all) != 2 {
		t.Fatalf("all rows = %+v, err %v", all, err)
	}
}

func TestTransactionsChart(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewChartService(repo)
	ctx := context.Background()

	rub := mustAddCurrency(t, repo, "RUB", "₽")
	groceries := mustAddCategory(t, repo, "Groceries", TypeExpense)

	for _, tx := range []struct {
		amount float64
		date   string
	}{
		{100, "2024-06-01"},
		{200, "2024-06-03"},
	} {
		if err := repo.AddTransaction(ctx, tx.amount, "", groceries, rub, tx.date, ""); err != nil {
			t.Fatal(err)
		}
	}

	series, err := svc.TransactionsChart(ctx, rub, TypeExpense, core.PeriodDays, "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("transactions chart: %v", err)
	}
	if len(series.Points) != 3 {
		t.Fatalf("points = %+v, want 3 buckets", series.Points)
	}
	if series.Points[0].Value != 100 || series.Points[1].Present || series.Points[2].Value != 200 {
		t.Fatalf("points = %+v", series.Points)
	}
}
