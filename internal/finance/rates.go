package finance

import (
	"context"
	"fmt"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/store"
)

// RateRecord is one stored exchange-rate observation.
type RateRecord struct {
	ID     int64
	FromID int64
	ToID   int64
	Rate   float64
	Date   string
}

// AddExchangeRate stores a rate observation and invalidates cached
// lookups.
func (r *Repository) AddExchangeRate(ctx context.Context, fromID, toID int64, rate float64, date string) error {
	err := r.exec.Exec(ctx, `
		INSERT INTO exchange_rates (_id_currency_from, _id_currency_to, rate, date)
		VALUES (:from_id, :to_id, :rate, :date)`,
		store.Params{"from_id": fromID, "to_id": toID, "rate": toCents(rate), "date": date})
	if err != nil {
		return err
	}
	r.rateCache.Clear()
	r.logger.Debug("exchange rate recorded",
		log.FieldCurrency, fromID, "to", toID, log.FieldDate, date)
	return nil
}

func (r *Repository) DeleteExchangeRate(ctx context.Context, id int64) error {
	if err := r.exec.Exec(ctx, "DELETE FROM exchange_rates WHERE _id = :id", store.Params{"id": id}); err != nil {
		return err
	}
	r.rateCache.Clear()
	return nil
}

// ExchangeRateExists reports whether a rate is already recorded for the
// currency pair on the given date.
func (r *Repository) ExchangeRateExists(ctx context.Context, fromID, toID int64, date string) bool {
	rows := r.exec.GetRows(ctx, `
		SELECT COUNT(*) FROM exchange_rates
		WHERE _id_currency_from = :from_id AND _id_currency_to = :to_id AND date = :date`,
		store.Params{"from_id": fromID, "to_id": toID, "date": date})
	if len(rows) == 0 {
		return false
	}
	n, _ := store.AsInt64(rows[0][0])
	return n > 0
}

// ExchangeRate returns the conversion rate between two currencies using
// the most recent observation on or before date (the latest observation
// when date is empty). When no direct rate exists the inverse pair is
// inverted; when neither exists the rate is 1.0.
func (r *Repository) ExchangeRate(ctx context.Context, fromID, toID int64, date string) float64 {
	if fromID == toID {
		return 1.0
	}

	key := fmt.Sprintf("%d:%d:%s", fromID, toID, date)
	if rate, ok := r.rateCache.Get(key); ok {
		return rate
	}

	rate := r.lookupRate(ctx, fromID, toID, date)
	r.rateCache.Set(key, rate)
	return rate
}

func (r *Repository) lookupRate(ctx context.Context, fromID, toID int64, date string) float64 {
	if raw, ok := r.rawRate(ctx, fromID, toID, date); ok {
		return raw
	}
	if raw, ok := r.rawRate(ctx, toID, fromID, date); ok && raw != 0 {
		return 1.0 / raw
	}
	return 1.0
}

func (r *Repository) rawRate(ctx context.Context, fromID, toID int64, date string) (float64, bool) {
	text := `
		SELECT rate FROM exchange_rates
		WHERE _id_currency_from = :from_id AND _id_currency_to = :to_id`
	params := store.Params{"from_id": fromID, "to_id": toID}
	if date != "" {
		text += " AND date <= :date"
		params["date"] = date
	}
	text += " ORDER BY date DESC LIMIT 1"

	rows := r.exec.GetRows(ctx, text, params)
	if len(rows) == 0 {
		return 0, false
	}
	scaled, ok := store.AsFloat64(rows[0][0])
	if !ok {
		return 0, false
	}
	return scaled / 100, true
}

// LastRateRecords returns the most recent limit rate observations for a
// currency pair, newest first.
func (r *Repository) LastRateRecords(ctx context.Context, fromID, toID int64, limit int) ([]RateRecord, error) {
	rows, err := r.exec.FetchAll(ctx, `
		SELECT _id, _id_currency_from, _id_currency_to, rate, date
		FROM exchange_rates
		WHERE _id_currency_from = :from_id AND _id_currency_to = :to_id
		ORDER BY date DESC, _id DESC
		LIMIT :limit`,
		store.Params{"from_id": fromID, "to_id": toID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("get last rate records: %w", err)
	}
	records := make([]RateRecord, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		from, _ := store.AsInt64(row[1])
		to, _ := store.AsInt64(row[2])
		scaled, _ := store.AsFloat64(row[3])
		records[i] = RateRecord{
			ID:     id,
			FromID: from,
			ToID:   to,
			Rate:   scaled / 100,
			Date:   store.AsString(row[4]),
		}
	}
	return records, nil
}

// CurrencyExchange is one recorded conversion between two currencies.
type CurrencyExchange struct {
	ID          int64
	FromID      int64
	ToID        int64
	AmountFrom  float64
	AmountTo    float64
	Rate        float64
	Fee         float64
	Date        string
	Description string
}

func (r *Repository) AddCurrencyExchange(ctx context.Context, e CurrencyExchange) error {
	return r.exec.Exec(ctx, `
		INSERT INTO currency_exchanges
		(_id_currency_from, _id_currency_to, amount_from, amount_to,
		 exchange_rate, fee, date, description)
		VALUES (:from_id, :to_id, :amount_from, :amount_to,
		        :exchange_rate, :fee, :date, :description)`,
		store.Params{
			"from_id":       e.FromID,
			"to_id":         e.ToID,
			"amount_from":   toCents(e.AmountFrom),
			"amount_to":     toCents(e.AmountTo),
			"exchange_rate": toCents(e.Rate),
			"fee":           toCents(e.Fee),
			"date":          e.Date,
			"description":   e.Description,
		})
}

func (r *Repository) DeleteCurrencyExchange(ctx context.Context, id int64) error {
	return r.exec.Exec(ctx, "DELETE FROM currency_exchanges WHERE _id = :id", store.Params{"id": id})
}

func (r *Repository) GetAllCurrencyExchanges(ctx context.Context) ([]CurrencyExchange, error) {
	rows, err := r.exec.FetchAll(ctx, `
		SELECT _id, _id_currency_from, _id_currency_to, amount_from, amount_to,
		       exchange_rate, fee, date, description
		FROM currency_exchanges
		ORDER BY date DESC, _id DESC`, nil)
	if err != nil {
		return nil, fmt.Errorf("get currency exchanges: %w", err)
	}
	exchanges := make([]CurrencyExchange, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		from, _ := store.AsInt64(row[1])
		to, _ := store.AsInt64(row[2])
		amountFrom, _ := store.AsInt64(row[3])
		amountTo, _ := store.AsInt64(row[4])
		rate, _ := store.AsInt64(row[5])
		fee, _ := store.AsInt64(row[6])
		exchanges[i] = CurrencyExchange{
			ID:          id,
			FromID:      from,
			ToID:        to,
			AmountFrom:  fromCents(amountFrom),
			AmountTo:    fromCents(amountTo),
			Rate:        fromCents(rate),
			Fee:         fromCents(fee),
			Date:        store.AsString(row[7]),
			Description: store.AsString(row[8]),
		}
	}
	return exchanges, nil
}

// EarliestCurrencyExchangeDate returns the first recorded exchange date.
func (r *Repository) EarliestCurrencyExchangeDate(ctx context.Context) (string, bool) {
	rows := r.exec.GetRows(ctx, "SELECT MIN(date) FROM currency_exchanges", nil)
	if len(rows) == 0 || rows[0][0] == nil {
		return "", false
	}
	date := store.AsString(rows[0][0])
	return date, date != ""
}
