package food

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "food.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestFoodItemCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item := Item{
		Name:                   "Apple",
		NameEn:                 "Apple",
		CaloriesPer100g:        52,
		DefaultPortionWeight:   180,
		DefaultPortionCalories: 94,
	}
	if err := repo.AddFoodItem(ctx, item); err != nil {
		t.Fatalf("add item: %v", err)
	}

	got, ok, err := repo.FoodItemByName(ctx, "Apple")
	if err != nil || !ok {
		t.Fatalf("item by name: ok=%v err=%v", ok, err)
	}
	if got.CaloriesPer100g != 52 || got.IsDrink {
		t.Fatalf("item = %+v", got)
	}

	got.CaloriesPer100g = 55
	if err := repo.UpdateFoodItem(ctx, got); err != nil {
		t.Fatalf("update item: %v", err)
	}
	got, _, _ = repo.FoodItemByName(ctx, "Apple")
	if got.CaloriesPer100g != 55 {
		t.Fatalf("calories after update = %v", got.CaloriesPer100g)
	}

	if _, ok, err := repo.FoodItemByName(ctx, "Pear"); err != nil || ok {
		t.Fatalf("missing item: ok=%v err=%v", ok, err)
	}

	if err := repo.DeleteFoodItem(ctx, got.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	items, err := repo.GetAllFoodItems(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("after delete: %v, err %v", items, err)
	}
}

func TestFoodItemsSortedByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Pear", "Apple", "Milk"} {
		if err := repo.AddFoodItem(ctx, Item{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	items, err := repo.GetAllFoodItems(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, item := range items {
		names = append(names, item.Name)
	}
	if !reflect.DeepEqual(names, []string{"Apple", "Milk", "Pear"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestFoodLogRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	records := []LogRecord{
		{Date: "2024-06-01", Name: "Apple", Weight: 180, CaloriesPer100g: 52},
		{Date: "2024-06-02", Name: "Juice", Weight: 250, IsDrink: true},
		{Date: "2024-06-02", Name: "Cake", PortionCalories: 400},
	}
	for _, rec := range records {
		if err := repo.AddLogRecord(ctx, rec); err != nil {
			t.Fatalf("add record: %v", err)
		}
	}

	all, err := repo.GetAllFoodLogRecords(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	// Newest date first, then newest insertion.
	if all[0].Name != "Cake" || all[1].Name != "Juice" || all[2].Name != "Apple" {
		t.Fatalf("order = %s, %s, %s", all[0].Name, all[1].Name, all[2].Name)
	}

	recent, err := repo.GetRecentFoodLogRecords(ctx, 2)
	if err != nil || len(recent) != 2 {
		t.Fatalf("recent = %v, err %v", recent, err)
	}

	all[0].PortionCalories = 350
	if err := repo.UpdateLogRecord(ctx, all[0]); err != nil {
		t.Fatalf("update record: %v", err)
	}
	updated, _ := repo.GetAllFoodLogRecords(ctx)
	if updated[0].PortionCalories != 350 {
		t.Fatalf("portion calories = %v", updated[0].PortionCalories)
	}

	if err := repo.DeleteLogRecord(ctx, all[0].ID); err != nil {
		t.Fatalf("delete record: %v", err)
	}
	remaining, _ := repo.GetAllFoodLogRecords(ctx)
	if len(remaining) != 2 {
		t.Fatalf("after delete: %d records", len(remaining))
	}

	earliest, ok := repo.EarliestLogDate(ctx)
	if !ok || earliest != "2024-06-01" {
		t.Fatalf("earliest = (%q, %v)", earliest, ok)
	}
}

func TestKcalChartData(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Portion calories win over the weight-derived value; rows with
	// neither contribute zero.
	records := []LogRecord{
		{Date: "2024-06-01", Name: "Apple", Weight: 200, CaloriesPer100g: 50},
		{Date: "2024-06-01", Name: "Cake", PortionCalories: 400, Weight: 100, CaloriesPer100g: 999},
		{Date: "2024-06-02", Name: "Water", Weight: 500, IsDrink: true},
	}
	for _, rec := range records {
		if err := repo.AddLogRecord(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := repo.KcalChartData(ctx, "2024-06-01", "2024-06-02")
	if err != nil {
		t.Fatalf("kcal chart data: %v", err)
	}
	want := []core.RawPoint{
		{Date: "2024-06-01", Value: "500"},
		{Date: "2024-06-02", Value: "0"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %+v, want %+v", rows, want)
	}
}

func TestCaloriesAndDrinksToday(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	today := core.Today()
	records := []LogRecord{
		{Date: today, Name: "Apple", Weight: 200, CaloriesPer100g: 50},
		{Date: today, Name: "Juice", Weight: 250, IsDrink: true},
		{Date: "2020-01-01", Name: "Cake", PortionCalories: 400},
	}
	for _, rec := range records {
		if err := repo.AddLogRecord(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	if got := repo.CaloriesToday(ctx); got != 100 {
		t.Fatalf("calories today = %v, want 100", got)
	}
	if got := repo.DrinksWeightToday(ctx); got != 250 {
		t.Fatalf("drinks weight today = %v, want 250", got)
	}
}

func TestPopularFoodItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, rec := range []LogRecord{
		{Date: "2024-06-01", Name: "Apple"},
		{Date: "2024-06-02", Name: "Bread"},
		{Date: "2024-06-03", Name: "Apple"},
		{Date: "2024-06-03", Name: "Cake"},
	} {
		if err := repo.AddLogRecord(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	names, err := repo.PopularFoodItems(ctx, 500)
	if err != nil {
		t.Fatalf("popular items: %v", err)
	}
	// Apple twice, then alphabetical among single uses.
	want := []string{"Apple", "Bread", "Cake"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}

	if names, _ := repo.PopularFoodItems(ctx, 0); names != nil {
		t.Fatalf("limit 0 should return nil, got %v", names)
	}
}

func TestKcalChart(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewChartService(repo)
	ctx := context.Background()

	for _, rec := range []LogRecord{
		{Date: "2024-06-01", Name: "Apple", PortionCalories: 100},
		{Date: "2024-06-03", Name: "Cake", PortionCalories: 400},
	} {
		if err := repo.AddLogRecord(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	series, err := svc.KcalChart(ctx, core.PeriodDays, "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("kcal chart: %v", err)
	}
	if len(series.Points) != 3 {
		t.Fatalf("points = %+v, want 3 buckets", series.Points)
	}
	if series.Points[0].Value != 100 || series.Points[1].Present || series.Points[2].Value != 400 {
		t.Fatalf("points = %+v", series.Points)
	}
}
