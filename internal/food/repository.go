// Package food is the nutrition tracker: a catalog of food items and a
// denormalized consumption log. Log rows carry their own name and calorie
// fields so editing the catalog never rewrites history.
package food

import (
	"context"
	"embed"
	"fmt"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// caloriesExpr derives calories for one log row: explicit portion calories
// win, otherwise weight * kcal/100g, otherwise zero.
const caloriesExpr = `
	CASE
		WHEN portion_calories IS NOT NULL AND portion_calories > 0
		THEN portion_calories
		WHEN calories_per_100g IS NOT NULL AND calories_per_100g > 0
		     AND weight IS NOT NULL AND weight > 0
		THEN (calories_per_100g * weight) / 100
		ELSE 0
	END`

type Item struct {
	ID                     int64
	Name                   string
	NameEn                 string
	IsDrink                bool
	CaloriesPer100g        float64
	DefaultPortionWeight   float64
	DefaultPortionCalories float64
}

type LogRecord struct {
	ID              int64
	Date            string
	Weight          float64
	PortionCalories float64
	CaloriesPer100g float64
	Name            string
	NameEn          string
	IsDrink         bool
}

type Repository struct {
	exec   *store.Executor
	logger *log.Logger
}

// Open bootstraps the schema and opens a session on the food database.
func Open(path string) (*Repository, error) {
	if err := store.RunMigrations(path, migrationsFS, "migrations"); err != nil {
		return nil, fmt.Errorf("migrate food database: %w", err)
	}
	sess, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open food database: %w", err)
	}
	return &Repository{
		exec:   store.NewExecutor(sess),
		logger: log.New(log.Config{Component: log.ComponentFood}),
	}, nil
}

func (r *Repository) Close() error {
	return r.exec.Session().Close()
}

func (r *Repository) AddFoodItem(ctx context.Context, item Item) error {
	return r.exec.Exec(ctx, `
		INSERT INTO food_items (
			name, name_en, is_drink, calories_per_100g,
			default_portion_weight, default_portion_calories
		)
		VALUES (
			:name, :name_en, :is_drink, :calories_per_100g,
			:default_portion_weight, :default_portion_calories
		)`,
		store.Params{
			"name":                     item.Name,
			"name_en":                  item.NameEn,
			"is_drink":                 boolFlag(item.IsDrink),
			"calories_per_100g":        item.CaloriesPer100g,
			"default_portion_weight":   item.DefaultPortionWeight,
			"default_portion_calories": item.DefaultPortionCalories,
		})
}

func (r *Repository) UpdateFoodItem(ctx context.Context, item Item) error {
	return r.exec.Exec(ctx, `
		UPDATE food_items
		SET name = :name,
		    name_en = :name_en,
		    is_drink = :is_drink,
		    calories_per_100g = :calories_per_100g,
		    default_portion_weight = :default_portion_weight,
		    default_portion_calories = :default_portion_calories
		WHERE _id = :id`,
		store.Params{
			"name":                     item.Name,
			"name_en":                  item.NameEn,
			"is_drink":                 boolFlag(item.IsDrink),
			"calories_per_100g":        item.CaloriesPer100g,
			"default_portion_weight":   item.DefaultPortionWeight,
			"default_portion_calories": item.DefaultPortionCalories,
			"id":                       item.ID,
		})
}

func (r *Repository) DeleteFoodItem(ctx context.Context, id int64) error {
	return r.exec.Exec(ctx, "DELETE FROM food_items WHERE _id = :id", store.Params{"id": id})
}

func (r *Repository) GetAllFoodItems(ctx context.Context) ([]Item, error) {
	rows, err := r.exec.FetchAll(ctx, `
		SELECT _id, name, name_en, is_drink, calories_per_100g, default_portion_weight, default_portion_calories
		FROM food_items
		ORDER BY name ASC`, nil)
	if err != nil {
		return nil, fmt.Errorf("get food items: %w", err)
	}
	items := make([]Item, len(rows))
	for i, row := range rows {
		items[i] = itemFromRow(row)
	}
	return items, nil
}

// FoodItemByName looks up a catalog item by exact name.
func (r *Repository) FoodItemByName(ctx context.Context, name string) (Item, bool, error) {
	rows, err := r.exec.FetchAll(ctx, `
		SELECT _id, name, name_en, is_drink, calories_per_100g, default_portion_weight, default_portion_calories
		FROM food_items
		WHERE name = :name`,
		store.Params{"name": name})
	if err != nil {
		return Item{}, false, fmt.Errorf("get food item %q: %w", name, err)
	}
	if len(rows) == 0 {
		return Item{}, false, nil
	}
	return itemFromRow(rows[0]), true, nil
}

func (r *Repository) AddLogRecord(ctx context.Context, rec LogRecord) error {
	err := r.exec.Exec(ctx, `
		INSERT INTO food_log (date, weight, portion_calories, calories_per_100g, name, name_en, is_drink)
		VALUES (:date, :weight, :portion_calories, :calories_per_100g, :name, :name_en, :is_drink)`,
		logParams(rec))
	if err != nil {
		return err
	}
	r.logger.Debug("food logged", log.FieldDate, rec.Date, "name", rec.Name)
	return nil
}

func (r *Repository) UpdateLogRecord(ctx context.Context, rec LogRecord) error {
	params := logParams(rec)
	params["id"] = rec.ID
	return r.exec.Exec(ctx, `
		UPDATE food_log
		SET date = :date,
		    weight = :weight,
		    portion_calories = :portion_calories,
		    calories_per_100g = :calories_per_100g,
		    name = :name,
		    name_en = :name_en,
		    is_drink = :is_drink
		WHERE _id = :id`,
		params)
}

func (r *Repository) DeleteLogRecord(ctx context.Context, id int64) error {
	return r.exec.Exec(ctx, "DELETE FROM food_log WHERE _id = :id", store.Params{"id": id})
}

func (r *Repository) GetAllFoodLogRecords(ctx context.Context) ([]LogRecord, error) {
	return r.fetchLogRecords(ctx, `
		SELECT _id, date, weight, portion_calories, calories_per_100g, name, name_en, is_drink
		FROM food_log
		ORDER BY date DESC, _id DESC`, nil)
}

func (r *Repository) GetRecentFoodLogRecords(ctx context.Context, limit int) ([]LogRecord, error) {
	return r.fetchLogRecords(ctx, `
		SELECT _id, date, weight, portion_calories, calories_per_100g, name, name_en, is_drink
		FROM food_log
		ORDER BY date DESC, _id DESC
		LIMIT :limit`,
		store.Params{"limit": limit})
}

func (r *Repository) fetchLogRecords(ctx context.Context, text string, params store.Params) ([]LogRecord, error) {
	rows, err := r.exec.FetchAll(ctx, text, params)
	if err != nil {
		return nil, fmt.Errorf("get food log records: %w", err)
	}
	records := make([]LogRecord, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		weight, _ := store.AsFloat64(row[2])
		portion, _ := store.AsFloat64(row[3])
		per100, _ := store.AsFloat64(row[4])
		records[i] = LogRecord{
			ID:              id,
			Date:            store.AsString(row[1]),
			Weight:          weight,
			PortionCalories: portion,
			CaloriesPer100g: per100,
			Name:            store.AsString(row[5]),
			NameEn:          store.AsString(row[6]),
			IsDrink:         store.AsBool(row[7]),
		}
	}
	return records, nil
}

// KcalChartData returns per-date calorie sums in [from, to].
func (r *Repository) KcalChartData(ctx context.Context, from, to string) ([]core.RawPoint, error) {
	rows, err := r.exec.FetchAll(ctx, `
		SELECT date, SUM(`+caloriesExpr+`) as total_calories
		FROM food_log
		WHERE date BETWEEN :date_from AND :date_to
		AND date IS NOT NULL
		GROUP BY date
		ORDER BY date ASC`,
		store.Params{"date_from": from, "date_to": to})
	if err != nil {
		return nil, fmt.Errorf("get kcal chart data: %w", err)
	}
	points := make([]core.RawPoint, len(rows))
	for i, row := range rows {
		points[i] = core.RawPoint{Date: store.AsString(row[0]), Value: store.AsString(row[1])}
	}
	return points, nil
}

// CaloriesToday returns the total calories consumed on today's date.
func (r *Repository) CaloriesToday(ctx context.Context) float64 {
	rows := r.exec.GetRows(ctx, `
		SELECT SUM(`+caloriesExpr+`) as total_calories
		FROM food_log
		WHERE date = :today`,
		store.Params{"today": core.Today()})
	if len(rows) == 0 || rows[0][0] == nil {
		return 0
	}
	total, _ := store.AsFloat64(rows[0][0])
	return total
}

// DrinksWeightToday returns the total weight of drinks logged today, in
// grams.
func (r *Repository) DrinksWeightToday(ctx context.Context) float64 {
	rows := r.exec.GetRows(ctx,
		"SELECT SUM(weight) FROM food_log WHERE date = :today AND is_drink = 1 AND weight IS NOT NULL",
		store.Params{"today": core.Today()})
	if len(rows) == 0 || rows[0][0] == nil {
		return 0
	}
	total, _ := store.AsFloat64(rows[0][0])
	return total
}

// PopularFoodItems returns distinct names from the most recent limit log
// rows, most used first, ties broken alphabetically.
func (r *Repository) PopularFoodItems(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.exec.FetchAll(ctx, `
		SELECT name, COUNT(*) as usage_count
		FROM (
			SELECT name FROM food_log
			WHERE name IS NOT NULL AND name != ''
			ORDER BY date DESC, _id DESC
			LIMIT :limit
		) as recent_foods
		GROUP BY name
		ORDER BY usage_count DESC, name ASC`,
		store.Params{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("get popular food items: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := store.AsString(row[0]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (r *Repository) EarliestLogDate(ctx context.Context) (string, bool) {
	rows := r.exec.GetRows(ctx, "SELECT MIN(date) FROM food_log WHERE date IS NOT NULL", nil)
	if len(rows) == 0 || rows[0][0] == nil {
		return "", false
	}
	date := store.AsString(rows[0][0])
	return date, date != ""
}

func itemFromRow(row store.Row) Item {
	id, _ := store.AsInt64(row[0])
	per100, _ := store.AsFloat64(row[4])
	weight, _ := store.AsFloat64(row[5])
	portion, _ := store.AsFloat64(row[6])
	return Item{
		ID:                     id,
		Name:                   store.AsString(row[1]),
		NameEn:                 store.AsString(row[2]),
		IsDrink:                store.AsBool(row[3]),
		CaloriesPer100g:        per100,
		DefaultPortionWeight:   weight,
		DefaultPortionCalories: portion,
	}
}

func logParams(rec LogRecord) store.Params {
	return store.Params{
		"date":              rec.Date,
		"weight":            rec.Weight,
		"portion_calories":  rec.PortionCalories,
		"calories_per_100g": rec.CaloriesPer100g,
		"name":              rec.Name,
		"name_en":           rec.NameEn,
		"is_drink":          boolFlag(rec.IsDrink),
	}
}

func boolFlag(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
