package app

import (
	"context"
	"fmt"
	"time"

	"pricing_insights/internal/domain"
)

// CachingRateLookup memoizes month-anchored rate lookups in a shared cache.
// Rates change at most monthly, so a bounded TTL does not affect
// correctness. Not-found outcomes are cached too, so a currency without a
// rate does not hit the store on every offer.
type CachingRateLookup struct {
	next  domain.ExchangeRateLookup
	cache domain.Cache
	ttl   time.Duration
}

func NewCachingRateLookup(next domain.ExchangeRateLookup, cache domain.Cache, ttl time.Duration) *CachingRateLookup {
	return &CachingRateLookup{next: next, cache: cache, ttl: ttl}
}

type cachedRate struct {
	Found bool
	Rate  domain.CurrencyExchangeRate
}

func (l *CachingRateLookup) GetForCurrency(ctx context.Context, currency string, monthAnchor time.Time) (*domain.CurrencyExchangeRate, error) {
	key := rateCacheKey(currency, monthAnchor)

	var entry cachedRate
	if ok, _ := l.cache.Get(ctx, key, &entry); ok {
		if !entry.Found {
			return nil, nil
		}
		rate := entry.Rate
		return &rate, nil
	}

	rate, err := l.next.GetForCurrency(ctx, currency, monthAnchor)
	if err != nil {
		return nil, err
	}

	entry = cachedRate{Found: rate != nil}
	if rate != nil {
		entry.Rate = *rate
	}
	_ = l.cache.Set(ctx, key, entry, int(l.ttl.Seconds()))
	return rate, nil
}

func rateCacheKey(currency string, monthAnchor time.Time) string {
	return fmt.Sprintf("fxrate:%s:%s", currency, monthAnchor.UTC().Format("2006-01-02"))
}
