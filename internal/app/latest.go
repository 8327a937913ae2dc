package app

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"pricing_insights/internal/domain"
)

// LatestExtractService reports the most recent capture instant per hotel,
// with short-lived caching in front of the store.
type LatestExtractService struct {
	source   domain.LatestExtractSource
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewLatestExtractService(src domain.LatestExtractSource, c domain.Cache, ttl time.Duration) *LatestExtractService {
	return &LatestExtractService{source: src, cache: c, cacheTTL: ttl}
}

func (s *LatestExtractService) LatestExtracts(ctx context.Context, hotelIDs []int64) ([]domain.HotelExtractDate, error) {
	key := latestExtractsCacheKey(hotelIDs)
	var out []domain.HotelExtractDate
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rows, err := s.source.LatestExtracts(ctx, hotelIDs)
	if err != nil {
		return nil, err
	}

	// copy before caching so callers can't mutate the cached value
	cp := make([]domain.HotelExtractDate, len(rows))
	copy(cp, rows)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return rows, nil
}

// latestExtractsCacheKey is order-insensitive over the requested ids.
func latestExtractsCacheKey(hotelIDs []int64) string {
	ids := make([]string, len(hotelIDs))
	for i, id := range hotelIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	sort.Strings(ids)
	return "latest_extracts:" + strings.Join(ids, ",")
}
