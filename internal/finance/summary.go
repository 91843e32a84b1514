package finance

import (
	"context"
	"fmt"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/store"
)

// convertedAmountExpr converts t.amount into the :currency_id currency
// using the joined rate row; amounts with no rate pass through
// unconverted. Both operands are scaled by 100, so the result stays in
// cents after the /100.
const convertedAmountExpr = `CASE
	WHEN t._id_currencies = :currency_id THEN t.amount
	ELSE COALESCE(er.rate * t.amount / 100, t.amount)
END`

// rateLookupJoin attaches the most recent rate on or before the
// transaction date for the transaction's currency pair.
const rateLookupJoin = `LEFT JOIN exchange_rates er
	ON er._id_currency_from = t._id_currencies
	AND er._id_currency_to = :currency_id
	AND er.date = (
		SELECT MAX(date)
		FROM exchange_rates er2
		WHERE er2._id_currency_from = t._id_currencies
		  AND er2._id_currency_to = :currency_id
		  AND er2.date <= t.date
	)`

// AccountBalance is one account's balance converted into a target
// currency.
type AccountBalance struct {
	Name    string
	Balance float64
}

// IncomeVsExpenses returns total income and total expenses converted into
// the target currency. From and to bound the dates when both are set;
// otherwise the totals cover all recorded transactions.
func (r *Repository) IncomeVsExpenses(ctx context.Context, currencyID int64, from, to string) (income, expenses float64, err error) {
	income, err = r.categoryTotal(ctx, currencyID, TypeIncome, from, to)
	if err != nil {
		return 0, 0, err
	}
	expenses, err = r.categoryTotal(ctx, currencyID, TypeExpense, from, to)
	if err != nil {
		return 0, 0, err
	}
	return income, expenses, nil
}

func (r *Repository) categoryTotal(ctx context.Context, currencyID int64, categoryType int, from, to string) (float64, error) {
	params := store.Params{"currency_id": currencyID, "category_type": categoryType}
	dateClause := ""
	if from != "" && to != "" {
		dateClause = " AND t.date BETWEEN :date_from AND :date_to"
		params["date_from"] = from
		params["date_to"] = to
	}

	text := `
		SELECT SUM(` + convertedAmountExpr + `) as total
		FROM transactions t
		JOIN categories cat ON t._id_categories = cat._id
		` + rateLookupJoin + `
		WHERE cat.type = :category_type` + dateClause

	rows, err := r.exec.FetchAll(ctx, text, params)
	if err != nil {
		return 0, fmt.Errorf("get category total: %w", err)
	}
	if len(rows) == 0 || rows[0][0] == nil {
		return 0, nil
	}
	cents, _ := store.AsFloat64(rows[0][0])
	return cents / 100, nil
}

// TodayExpenses returns today's total expenses in the target currency.
func (r *Repository) TodayExpenses(ctx context.Context, currencyID int64) (float64, error) {
	today := core.Today()
	_, expenses, err := r.IncomeVsExpenses(ctx, currencyID, today, today)
	return expenses, err
}

// TodayBalance returns today's income minus today's expenses in the
// target currency.
func (r *Repository) TodayBalance(ctx context.Context, currencyID int64) (float64, error) {
	today := core.Today()
	income, expenses, err := r.IncomeVsExpenses(ctx, currencyID, today, today)
	return income - expenses, err
}

// AccountBalances returns every account's balance converted into the
// target currency, ordered by account name. Balances are converted with
// the most recent stored rate; accounts with no rate pass through
// unconverted.
func (r *Repository) AccountBalances(ctx context.Context, currencyID int64) ([]AccountBalance, error) {
	rows, err := r.exec.FetchAll(ctx, `
		SELECT a.name,
		       CASE
		           WHEN a._id_currencies = :currency_id THEN a.balance
		           ELSE COALESCE(er.rate * a.balance / 100, a.balance)
		       END as converted_balance
		FROM accounts a
		LEFT JOIN exchange_rates er
		     ON er._id_currency_from = a._id_currencies
		    AND er._id_currency_to = :currency_id
		    AND er.date = (
		        SELECT MAX(date)
		        FROM exchange_rates er2
		        WHERE er2._id_currency_from = a._id_currencies
		          AND er2._id_currency_to = :currency_id
		    )
		ORDER BY a.name`,
		store.Params{"currency_id": currencyID})
	if err != nil {
		return nil, fmt.Errorf("get account balances: %w", err)
	}

	balances := make([]AccountBalance, len(rows))
	for i, row := range rows {
		cents, _ := store.AsFloat64(row[1])
		balances[i] = AccountBalance{
			Name:    store.AsString(row[0]),
			Balance: cents / 100,
		}
	}
	return balances, nil
}
