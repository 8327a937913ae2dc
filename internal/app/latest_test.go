package app_test

import (
	"context"
	"testing"
	"time"

	"pricing_insights/internal/app"
	"pricing_insights/internal/domain"
)

type fakeLatestSource struct {
	rows  []domain.HotelExtractDate
	calls int
}

func (f *fakeLatestSource) LatestExtracts(ctx context.Context, hotelIDs []int64) ([]domain.HotelExtractDate, error) {
	f.calls++
	return f.rows, nil
}

func TestLatestExtracts_CacheMissThenHit(t *testing.T) {
	src := &fakeLatestSource{rows: []domain.HotelExtractDate{
		{HotelID: 7, ExtractedAt: date(2020, time.January, 10)},
	}}
	s := app.NewLatestExtractService(src, &fakeCache{}, 10*time.Minute)

	first, err := s.LatestExtracts(context.Background(), []int64{7})
	if err != nil || len(first) != 1 || first[0].HotelID != 7 {
		t.Fatalf("got=%+v err=%v", first, err)
	}

	// Change the source; the second read must be served from the cache.
	src.rows = nil
	second, err := s.LatestExtracts(context.Background(), []int64{7})
	if err != nil || len(second) != 1 {
		t.Fatalf("expected cached rows, got=%+v err=%v", second, err)
	}
	if src.calls != 1 {
		t.Fatalf("expected one source call, got %d", src.calls)
	}
}

func TestLatestExtracts_CacheKeyIgnoresIDOrder(t *testing.T) {
	src := &fakeLatestSource{rows: []domain.HotelExtractDate{
		{HotelID: 2, ExtractedAt: date(2020, time.January, 10)},
		{HotelID: 9, ExtractedAt: date(2020, time.January, 12)},
	}}
	s := app.NewLatestExtractService(src, &fakeCache{}, 10*time.Minute)

	if _, err := s.LatestExtracts(context.Background(), []int64{2, 9}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := s.LatestExtracts(context.Background(), []int64{9, 2}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("same id set must share a cache entry, got %d source calls", src.calls)
	}
}
