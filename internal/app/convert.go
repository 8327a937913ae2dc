package app

import (
	"context"
	"time"

	"pricing_insights/internal/domain"
)

const usdCurrency = "USD"

// Converter turns priced offers into their equivalent in another currency
// using month-anchored exchange rates.
type Converter struct {
	rates domain.ExchangeRateLookup
}

func NewConverter(rates domain.ExchangeRateLookup) *Converter {
	return &Converter{rates: rates}
}

// ConvertPrice converts one offer to targetCurrency. An offer already in
// the target currency is returned as-is without any lookup. A nil result
// with a nil error means no rate is known for the offer's currency; the
// offer must then be excluded from consideration, not treated as a failure.
//
// The rate store always expresses a currency's equivalent in USD, so the
// converted offer is labelled "USD" whatever targetCurrency says. The
// monetary multiplication is rounded to cents with banker's rounding.
func (c *Converter) ConvertPrice(ctx context.Context, price domain.PriceInfo, targetCurrency string, monthAnchor time.Time) (*domain.PriceInfo, error) {
	if price.Currency == targetCurrency {
		return &price, nil
	}

	rate, err := c.rates.GetForCurrency(ctx, price.Currency, monthAnchor)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, nil
	}

	converted := price
	converted.PriceValue = price.PriceValue.Mul(rate.UsdConversionRate).RoundBank(2)
	converted.Currency = usdCurrency
	return &converted, nil
}
