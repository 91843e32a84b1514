package finance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/store"
)

// Transaction is one money movement joined with its category and currency.
type Transaction struct {
	ID           int64
	Amount       float64
	Description  string
	Category     string
	CurrencyCode string
	Date         string
	Tag          string
	CategoryType int
	Icon         string
	Symbol       string
}

// TransactionFilter narrows transaction listings; zero-value string fields
// mean "no filter", CategoryType CategoryAny disables the type filter.
// From and To only apply when both are set.
type TransactionFilter struct {
	CategoryType int
	Category     string
	CurrencyCode string
	From         string
	To           string
}

// NewTransactionFilter returns a filter that matches everything.
func NewTransactionFilter() TransactionFilter {
	return TransactionFilter{CategoryType: CategoryAny}
}

func (r *Repository) AddTransaction(ctx context.Context, amount float64, description string, categoryID, currencyID int64, date, tag string) error {
	err := r.exec.Exec(ctx, `
		INSERT INTO transactions (amount, description, _id_categories, _id_currencies, date, tag)
		VALUES (:amount, :description, :category_id, :currency_id, :date, :tag)`,
		store.Params{
			"amount":      toCents(amount),
			"description": description,
			"category_id": categoryID,
			"currency_id": currencyID,
			"date":        date,
			"tag":         tag,
		})
	if err != nil {
		return err
	}
	r.logger.Debug("transaction recorded", log.FieldDate, date, "amount_cents", toCents(amount))
	return nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, id int64, amount float64, description string, categoryID, currencyID int64, date, tag string) error {
	return r.exec.Exec(ctx, `
		UPDATE transactions SET amount = :amount, description = :description,
		                        _id_categories = :category_id, _id_currencies = :currency_id,
		                        date = :date, tag = :tag
		WHERE _id = :id`,
		store.Params{
			"amount":      toCents(amount),
			"description": description,
			"category_id": categoryID,
			"currency_id": currencyID,
			"date":        date,
			"tag":         tag,
			"id":          id,
		})
}

func (r *Repository) DeleteTransaction(ctx context.Context, id int64) error {
	return r.exec.Exec(ctx, "DELETE FROM transactions WHERE _id = :id", store.Params{"id": id})
}

// GetAllTransactions returns transactions newest first. limit <= 0 means
// no limit.
func (r *Repository) GetAllTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	text := transactionSelect + " ORDER BY t.date DESC, t._id DESC"
	params := store.Params{}
	if limit > 0 {
		text += " LIMIT :limit"
		params["limit"] = limit
	}
	return r.fetchTransactions(ctx, text, params)
}

func (r *Repository) GetFilteredTransactions(ctx context.Context, f TransactionFilter) ([]Transaction, error) {
	var conditions []string
	params := store.Params{}

	if f.CategoryType != CategoryAny {
		conditions = append(conditions, "cat.type = :category_type")
		params["category_type"] = f.CategoryType
	}
	if f.Category != "" {
		conditions = append(conditions, "cat.name = :category_name")
		params["category_name"] = f.Category
	}
	if f.CurrencyCode != "" {
		conditions = append(conditions, "c.code = :currency_code")
		params["currency_code"] = f.CurrencyCode
	}
	if f.From != "" && f.To != "" {
		conditions = append(conditions, "t.date BETWEEN :date_from AND :date_to")
		params["date_from"] = f.From
		params["date_to"] = f.To
	}

	text := transactionSelect
	if len(conditions) > 0 {
		text += " WHERE " + strings.Join(conditions, " AND ")
	}
	text += " ORDER BY t.date DESC, t._id DESC"

	return r.fetchTransactions(ctx, text, params)
}

const transactionSelect = `
	SELECT t._id, t.amount, t.description, cat.name, c.code, t.date, t.tag,
	       cat.type, cat.icon, c.symbol
	FROM transactions t
	JOIN categories cat ON t._id_categories = cat._id
	JOIN currencies c ON t._id_currencies = c._id`

func (r *Repository) fetchTransactions(ctx context.Context, text string, params store.Params) ([]Transaction, error) {
	rows, err := r.exec.FetchAll(ctx, text, params)
	if err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	transactions := make([]Transaction, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		cents, _ := store.AsInt64(row[1])
		catType, _ := store.AsInt64(row[7])
		transactions[i] = Transaction{
			ID:           id,
			Amount:       fromCents(cents),
			Description:  store.AsString(row[2]),
			Category:     store.AsString(row[3]),
			CurrencyCode: store.AsString(row[4]),
			Date:         store.AsString(row[5]),
			Tag:          store.AsString(row[6]),
			CategoryType: int(catType),
			Icon:         store.AsString(row[8]),
			Symbol:       store.AsString(row[9]),
		}
	}
	return transactions, nil
}

// RecentDescriptions returns unique transaction descriptions for
// autocomplete, blending the most used with the most recent.
func (r *Repository) RecentDescriptions(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	limitFrequent := limit * 7 / 10
	limitRecent := limit - limitFrequent

	rows, err := r.exec.FetchAll(ctx, `
		WITH frequent_descriptions AS (
			SELECT t.description, COUNT(*) as usage_count, MAX(t.date) as last_used
			FROM transactions t
			WHERE t.description IS NOT NULL AND t.description != ''
			GROUP BY t.description
			ORDER BY usage_count DESC, last_used DESC
			LIMIT :limit_frequent
		),
		recent_descriptions AS (
			SELECT DISTINCT t.description
			FROM transactions t
			WHERE t.description IS NOT NULL AND t.description != ''
			ORDER BY t._id DESC
			LIMIT :limit_recent
		)
		SELECT DISTINCT description
		FROM (
			SELECT description FROM frequent_descriptions
			UNION
			SELECT description FROM recent_descriptions
		)
		ORDER BY description`,
		store.Params{"limit_frequent": limitFrequent, "limit_recent": limitRecent})
	if err != nil {
		return nil, fmt.Errorf("get recent descriptions: %w", err)
	}
	descriptions := make([]string, 0, len(rows))
	for _, row := range rows {
		if d := store.AsString(row[0]); d != "" {
			descriptions = append(descriptions, d)
		}
	}
	return descriptions, nil
}

// EarliestTransactionDate returns the first date any transaction was
// recorded on.
func (r *Repository) EarliestTransactionDate(ctx context.Context) (string, bool) {
	rows := r.exec.GetRows(ctx, "SELECT MIN(date) FROM transactions WHERE date IS NOT NULL", nil)
	if len(rows) == 0 || rows[0][0] == nil {
		return "", false
	}
	date := store.AsString(rows[0][0])
	return date, date != ""
}

// TransactionsChartData returns per-date amount sums converted into the
// target currency. Each foreign-currency amount is converted with the most
// recent rate on or before the transaction date; amounts with no rate pass
// through unconverted.
func (r *Repository) TransactionsChartData(ctx context.Context, currencyID int64, categoryType int, from, to string) ([]core.RawPoint, error) {
	var conditions []string
	params := store.Params{"currency_id": currencyID}

	if categoryType != CategoryAny {
		conditions = append(conditions, "cat.type = :category_type")
		params["category_type"] = categoryType
	}
	if from != "" && to != "" {
		conditions = append(conditions, "t.date BETWEEN :date_from AND :date_to")
		params["date_from"] = from
		params["date_to"] = to
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " AND " + strings.Join(conditions, " AND ")
	}

	text := `
		SELECT t.date, SUM(` + convertedAmountExpr + `) as total_amount
		FROM transactions t
		JOIN categories cat ON t._id_categories = cat._id
		` + rateLookupJoin + `
		WHERE 1=1` + whereClause + `
		GROUP BY t.date
		ORDER BY t.date ASC`

	rows, err := r.exec.FetchAll(ctx, text, params)
	if err != nil {
		return nil, fmt.Errorf("get transactions chart data: %w", err)
	}
	points := make([]core.RawPoint, len(rows))
	for i, row := range rows {
		cents, _ := store.AsFloat64(row[1])
		points[i] = core.RawPoint{
			Date:  store.AsString(row[0]),
			Value: strconv.FormatFloat(cents/100, 'f', -1, 64),
		}
	}
	return points, nil
}
