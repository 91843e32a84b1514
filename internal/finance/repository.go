// Package finance is the money tracker: multi-currency transactions,
// categories, accounts, and an exchange-rate history. All monetary values
// are stored as integer cents; rates are stored scaled by 100.
package finance

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/cache"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Category types.
const (
	TypeExpense = 0
	TypeIncome  = 1

	// CategoryAny disables the category-type filter.
	CategoryAny = -1
)

// FallbackCurrency is reported when no default currency is configured.
const FallbackCurrency = "RUB"

const (
	rateCacheSize = 1024
	rateCacheTTL  = time.Hour
)

type Currency struct {
	ID     int64
	Code   string
	Name   string
	Symbol string
}

type Category struct {
	ID   int64
	Name string
	Type int
	Icon string
}

type Account struct {
	ID         int64
	Name       string
	Balance    float64
	CurrencyID int64
	IsLiquid   bool
	IsCash     bool
}

type Repository struct {
	exec      *store.Executor
	rateCache *cache.LRUCache[float64]
	logger    *log.Logger
}

// Open bootstraps the schema and opens a session on the finance database.
func Open(path string) (*Repository, error) {
	if err := store.RunMigrations(path, migrationsFS, "migrations"); err != nil {
		return nil, fmt.Errorf("migrate finance database: %w", err)
	}
	sess, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open finance database: %w", err)
	}
	return &Repository{
		exec:      store.NewExecutor(sess),
		rateCache: cache.NewLRUCache[float64](rateCacheSize, rateCacheTTL),
		logger:    log.New(log.Config{Component: log.ComponentFinance}),
	}, nil
}

func (r *Repository) Close() error {
	return r.exec.Session().Close()
}

// RateCache exposes the cache for cleanup registration.
func (r *Repository) RateCache() *cache.LRUCache[float64] {
	return r.rateCache
}

func (r *Repository) AddCurrency(ctx context.Context, code, name, symbol string) error {
	return r.exec.Exec(ctx,
		"INSERT INTO currencies (code, name, symbol) VALUES (:code, :name, :symbol)",
		store.Params{"code": code, "name": name, "symbol": symbol})
}

func (r *Repository) UpdateCurrency(ctx context.Context, id int64, code, name, symbol string) error {
	return r.exec.Exec(ctx,
		"UPDATE currencies SET code = :code, name = :name, symbol = :symbol WHERE _id = :id",
		store.Params{"code": code, "name": name, "symbol": symbol, "id": id})
}

func (r *Repository) DeleteCurrency(ctx context.Context, id int64) error {
	return r.exec.Exec(ctx, "DELETE FROM currencies WHERE _id = :id", store.Params{"id": id})
}

func (r *Repository) GetAllCurrencies(ctx context.Context) ([]Currency, error) {
	rows, err := r.exec.FetchAll(ctx,
		"SELECT _id, code, name, symbol FROM currencies ORDER BY code", nil)
	if err != nil {
		return nil, fmt.Errorf("get currencies: %w", err)
	}
	currencies := make([]Currency, len(rows))
	for i, row := range rows {
		currencies[i] = currencyFromRow(row)
	}
	return currencies, nil
}

func (r *Repository) CurrencyByCode(ctx context.Context, code string) (Currency, bool, error) {
	rows, err := r.exec.FetchAll(ctx,
		"SELECT _id, code, name, symbol FROM currencies WHERE code = :code",
		store.Params{"code": code})
	if err != nil {
		return Currency{}, false, fmt.Errorf("get currency %s: %w", code, err)
	}
	if len(rows) == 0 {
		return Currency{}, false, nil
	}
	return currencyFromRow(rows[0]), true, nil
}

func (r *Repository) CurrencyByID(ctx context.Context, id int64) (Currency, bool, error) {
	rows, err := r.exec.FetchAll(ctx,
		"SELECT _id, code, name, symbol FROM currencies WHERE _id = :id",
		store.Params{"id": id})
	if err != nil {
		return Currency{}, false, fmt.Errorf("get currency %d: %w", id, err)
	}
	if len(rows) == 0 {
		return Currency{}, false, nil
	}
	return currencyFromRow(rows[0]), true, nil
}

// DefaultCurrency returns the configured default currency code.
func (r *Repository) DefaultCurrency(ctx context.Context) string {
	rows := r.exec.GetRows(ctx, "SELECT value FROM settings WHERE key = 'default_currency'", nil)
	if len(rows) == 0 {
		return FallbackCurrency
	}
	if code := store.AsString(rows[0][0]); code != "" {
		return code
	}
	return FallbackCurrency
}

// DefaultCurrencyID resolves the default currency code to its row id,
// falling back to 1 when the code is unknown.
func (r *Repository) DefaultCurrencyID(ctx context.Context) int64 {
	currency, ok, err := r.CurrencyByCode(ctx, r.DefaultCurrency(ctx))
	if err != nil || !ok {
		return 1
	}
	return currency.ID
}

func (r *Repository) SetDefaultCurrency(ctx context.Context, code string) error {
	return r.exec.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ('default_currency', :code)
		ON CONFLICT(key) DO UPDATE SET value = :code`,
		store.Params{"code": code})
}

func (r *Repository) AddCategory(ctx context.Context, name string, categoryType int, icon string) error {
	return r.exec.Exec(ctx,
		"INSERT INTO categories (name, type, icon) VALUES (:name, :type, :icon)",
		store.Params{"name": name, "type": categoryType, "icon": icon})
}

func (r *Repository) UpdateCategory(ctx context.Context, id int64, name string, categoryType int, icon string) error {
	return r.exec.Exec(ctx,
		"UPDATE categories SET name = :name, type = :type, icon = :icon WHERE _id = :id",
		store.Params{"name": name, "type": categoryType, "icon": icon, "id": id})
}

func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	return r.exec.Exec(ctx, "DELETE FROM categories WHERE _id = :id", store.Params{"id": id})
}

func (r *Repository) GetAllCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.exec.FetchAll(ctx,
		"SELECT _id, name, type, icon FROM categories ORDER BY type, name", nil)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	categories := make([]Category, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		typ, _ := store.AsInt64(row[2])
		categories[i] = Category{
			ID:   id,
			Name: store.AsString(row[1]),
			Type: int(typ),
			Icon: store.AsString(row[3]),
		}
	}
	return categories, nil
}

// CategoriesByType returns category names of one type, sorted by name.
func (r *Repository) CategoriesByType(ctx context.Context, categoryType int) ([]string, error) {
	rows, err := r.exec.FetchAll(ctx,
		"SELECT name FROM categories WHERE type = :type ORDER BY name",
		store.Params{"type": categoryType})
	if err != nil {
		return nil, fmt.Errorf("get categories by type: %w", err)
	}
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = store.AsString(row[0])
	}
	return names, nil
}

func (r *Repository) AddAccount(ctx context.Context, a Account) error {
	return r.exec.Exec(ctx, `
		INSERT INTO accounts (name, balance, _id_currencies, is_liquid, is_cash)
		VALUES (:name, :balance, :currency_id, :is_liquid, :is_cash)`,
		store.Params{
			"name":        a.Name,
			"balance":     toCents(a.Balance),
			"currency_id": a.CurrencyID,
			"is_liquid":   boolFlag(a.IsLiquid),
			"is_cash":     boolFlag(a.IsCash),
		})
}

func (r *Repository) UpdateAccount(ctx context.Context, a Account) error {
	return r.exec.Exec(ctx, `
		UPDATE accounts SET name = :name, balance = :balance, _id_currencies = :currency_id,
		                    is_liquid = :is_liquid, is_cash = :is_cash
		WHERE _id = :id`,
		store.Params{
			"name":        a.Name,
			"balance":     toCents(a.Balance),
			"currency_id": a.CurrencyID,
			"is_liquid":   boolFlag(a.IsLiquid),
			"is_cash":     boolFlag(a.IsCash),
			"id":          a.ID,
		})
}

func (r *Repository) DeleteAccount(ctx context.Context, id int64) error {
	return r.exec.Exec(ctx, "DELETE FROM accounts WHERE _id = :id", store.Params{"id": id})
}

func (r *Repository) GetAllAccounts(ctx context.Context) ([]Account, error) {
	rows, err := r.exec.FetchAll(ctx,
		"SELECT _id, name, balance, _id_currencies, is_liquid, is_cash FROM accounts ORDER BY name", nil)
	if err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}
	accounts := make([]Account, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		cents, _ := store.AsInt64(row[2])
		currencyID, _ := store.AsInt64(row[3])
		accounts[i] = Account{
			ID:         id,
			Name:       store.AsString(row[1]),
			Balance:    fromCents(cents),
			CurrencyID: currencyID,
			IsLiquid:   store.AsBool(row[4]),
			IsCash:     store.AsBool(row[5]),
		}
	}
	return accounts, nil
}

func currencyFromRow(row store.Row) Currency {
	id, _ := store.AsInt64(row[0])
	return Currency{
		ID:     id,
		Code:   store.AsString(row[1]),
		Name:   store.AsString(row[2]),
		Symbol: store.AsString(row[3]),
	}
}

// toCents converts a decimal amount to stored integer cents, truncating
// like the historical data this schema inherits.
func toCents(amount float64) int64 {
	return int64(amount * 100)
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

func boolFlag(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
