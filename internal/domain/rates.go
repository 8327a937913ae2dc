package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyExchangeRate is the USD conversion rate for a currency as
// captured on ExtractDate (midnight UTC). Rates are read-only supplied by
// the rate store; the comparison pipeline never writes them.
type CurrencyExchangeRate struct {
	Currency          string          `json:"currency"`
	UsdConversionRate decimal.Decimal `json:"usdConversionRate"`
	ExtractDate       time.Time       `json:"extractDate"`
}
