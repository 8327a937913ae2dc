package domain

import (
	"context"
	"time"
)

// PricingExtractSource returns all snapshots for the given hotels whose
// arrival date falls in the month of arrivalMonth and whose capture instant
// falls inside window. The delivered order must be stable for a given
// query, but callers must not assume any particular ordering.
type PricingExtractSource interface {
	Get(ctx context.Context, hotelIDs []int64, arrivalMonth time.Time, window ExtractWindow) ([]PricingExtract, error)
}

// ExchangeRateLookup resolves the rate with the most recent capture date on
// or before monthAnchor. A nil rate with a nil error means no rate is
// known; that is an exclusion signal, not a failure. Implementations must
// be safe for concurrent reads, and repeated calls with the same arguments
// are idempotent and may be memoized for a bounded time.
type ExchangeRateLookup interface {
	GetForCurrency(ctx context.Context, currency string, monthAnchor time.Time) (*CurrencyExchangeRate, error)
}

// LatestExtractSource reports the most recent capture instant per hotel.
// Hotels with no extracts at all are simply absent from the result.
type LatestExtractSource interface {
	LatestExtracts(ctx context.Context, hotelIDs []int64) ([]HotelExtractDate, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
