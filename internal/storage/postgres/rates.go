package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pricing_insights/internal/adapters/observability"
	"pricing_insights/internal/domain"
)

const rateForCurrencySQL = `
SELECT currency, usd_conversion_rate, extract_date
FROM exchange_rates
WHERE currency = $1
  AND extract_date <= $2
ORDER BY extract_date DESC
LIMIT 1`

// RatesRepo reads USD conversion rates from the exchange_rates table.
// The table is maintained by a separate job; this repo only reads it.
type RatesRepo struct{ db *sql.DB }

func New(db *sql.DB) *RatesRepo { return &RatesRepo{db: db} }

// GetForCurrency returns the rate with the most recent capture date on or
// before monthAnchor, or nil when the currency has no usable rate.
func (r *RatesRepo) GetForCurrency(ctx context.Context, currency string, monthAnchor time.Time) (*domain.CurrencyExchangeRate, error) {
	u := monthAnchor.UTC()
	anchor := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)

	start := time.Now()
	row := r.db.QueryRowContext(ctx, rateForCurrencySQL, currency, anchor)

	var rate domain.CurrencyExchangeRate
	err := row.Scan(&rate.Currency, &rate.UsdConversionRate, &rate.ExtractDate)
	obsErr := err
	if errors.Is(err, sql.ErrNoRows) {
		obsErr = nil // absence is a normal outcome, not a store failure
	}
	observability.ObserveStore("postgres", "rate_for_currency", obsErr, time.Since(start))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rate.ExtractDate = rate.ExtractDate.UTC()
	return &rate, nil
}
