package app

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"pricing_insights/internal/domain"
)

// PriceRecord is one output row: the cheapest recent price found for a
// hotel on an arrival date, plus the delta against the same calendar date
// in the historical period when one exists.
type PriceRecord struct {
	Hotel       int64            `json:"hotel"`
	Price       decimal.Decimal  `json:"price"`
	Currency    string           `json:"currency"`
	Difference  *decimal.Decimal `json:"difference,omitempty"`
	ArrivalDate string           `json:"arrival_date"`
}

type PricingComparisonResponse struct {
	Prices []PriceRecord `json:"prices"`
}

// ComparisonService orchestrates the comparison pipeline: it derives the
// current and historical capture windows, fetches both snapshot sets in
// parallel, reduces each to one price per (hotel, arrival day) and joins
// the two reductions by the calendar-exact year shift.
type ComparisonService struct {
	extracts  domain.PricingExtractSource
	converter *Converter
}

func NewComparisonService(extracts domain.PricingExtractSource, converter *Converter) *ComparisonService {
	return &ComparisonService{extracts: extracts, converter: converter}
}

// GetPricingComparison compares the cheapest snapshot prices for the
// arrival month against those for the same month yearsAgo years earlier.
// A nil cancellableOnly means no cancellability filtering. Hotels with no
// current-period price never appear in the result, even when a historical
// price exists.
func (s *ComparisonService) GetPricingComparison(ctx context.Context, hotelIDs []int64, arrivalMonth time.Time, yearsAgo int, targetCurrency string, cancellableOnly *bool) (PricingComparisonResponse, error) {
	currentWindow := domain.WindowForArrivalMonth(arrivalMonth)
	historicalMonth := arrivalMonth.AddDate(-yearsAgo, 0, 0)
	historicalWindow := domain.WindowForArrivalMonth(historicalMonth)

	// The two window fetches are independent; fan out and barrier-join.
	var current, historical []domain.PricingExtract
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.extracts.Get(gctx, hotelIDs, arrivalMonth, currentWindow)
		return err
	})
	g.Go(func() error {
		var err error
		historical, err = s.extracts.Get(gctx, hotelIDs, historicalMonth, historicalWindow)
		return err
	})
	if err := g.Wait(); err != nil {
		return PricingComparisonResponse{}, err
	}

	currentPrices, err := s.lowestPricePerHotelAndArrival(ctx, current, arrivalMonth, targetCurrency, cancellableOnly)
	if err != nil {
		return PricingComparisonResponse{}, err
	}
	historicalPrices, err := s.lowestPricePerHotelAndArrival(ctx, historical, historicalMonth, targetCurrency, cancellableOnly)
	if err != nil {
		return PricingComparisonResponse{}, err
	}

	return PricingComparisonResponse{
		Prices: buildPriceRecords(currentPrices, historicalPrices, yearsAgo, targetCurrency),
	}, nil
}

type extractPrice struct {
	price      decimal.Decimal
	extractDay domain.ArrivalDay
}

// lowestPricePerHotelAndArrival reduces one snapshot set to a single price
// per (hotel, arrival day): normalize every offer to USD, take each
// snapshot's cheapest normalized offer, keep the snapshot with the latest
// capture date per key, then convert the retained offer once more to the
// requested target currency. A snapshot whose final conversion resolves to
// no rate is skipped; any earlier retained entry for its key survives.
func (s *ComparisonService) lowestPricePerHotelAndArrival(ctx context.Context, extracts []domain.PricingExtract, monthAnchor time.Time, targetCurrency string, cancellableOnly *bool) (map[domain.HotelArrivalKey]decimal.Decimal, error) {
	byArrival := make(map[domain.HotelArrivalKey]extractPrice)

	for _, raw := range extracts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		prices, err := s.normalizePrices(ctx, raw.Prices, monthAnchor, cancellableOnly)
		if err != nil {
			return nil, err
		}
		extract := raw.WithPrices(prices)
		if len(extract.Prices) == 0 {
			continue
		}

		lowest := extract.Prices[0]
		for _, p := range extract.Prices[1:] {
			if p.PriceValue.LessThan(lowest.PriceValue) {
				lowest = p
			}
		}

		key := domain.HotelArrivalKey{HotelID: extract.HotelID, ArrivalDay: extract.ArrivalDay}

		// Latest capture wins; an equal capture date keeps the entry that
		// was processed first.
		if prev, ok := byArrival[key]; ok && extract.ExtractDay <= prev.extractDay {
			continue
		}

		inTarget, err := s.converter.ConvertPrice(ctx, lowest, targetCurrency, monthAnchor)
		if err != nil {
			return nil, err
		}
		if inTarget == nil {
			continue
		}

		byArrival[key] = extractPrice{price: inTarget.PriceValue, extractDay: extract.ExtractDay}
	}

	out := make(map[domain.HotelArrivalKey]decimal.Decimal, len(byArrival))
	for key, entry := range byArrival {
		out[key] = entry.price
	}
	return out, nil
}

// normalizePrices drops non-cancellable offers when requested and converts
// the rest to USD. Offers with no resolvable rate are dropped.
func (s *ComparisonService) normalizePrices(ctx context.Context, prices []domain.PriceInfo, monthAnchor time.Time, cancellableOnly *bool) ([]domain.PriceInfo, error) {
	normalized := make([]domain.PriceInfo, 0, len(prices))
	for _, price := range prices {
		if cancellableOnly != nil && *cancellableOnly && !price.IsCancellable {
			continue
		}
		converted, err := s.converter.ConvertPrice(ctx, price, usdCurrency, monthAnchor)
		if err != nil {
			return nil, err
		}
		if converted == nil {
			continue
		}
		normalized = append(normalized, *converted)
	}
	return normalized, nil
}

// buildPriceRecords joins the current reduction against the historical one.
// The historical key is always the current arrival date shifted back by the
// calendar-exact year offset, never a historical snapshot's own date.
func buildPriceRecords(currentPrices, historicalPrices map[domain.HotelArrivalKey]decimal.Decimal, yearsAgo int, currency string) []PriceRecord {
	records := make([]PriceRecord, 0, len(currentPrices))
	for key, currentPrice := range currentPrices {
		arrivalDate := key.ArrivalDay.Date()

		var difference *decimal.Decimal
		historicalKey := domain.HotelArrivalKey{
			HotelID:    key.HotelID,
			ArrivalDay: domain.ArrivalDayFromDate(arrivalDate.AddDate(-yearsAgo, 0, 0)),
		}
		if historicalPrice, ok := historicalPrices[historicalKey]; ok {
			d := currentPrice.Sub(historicalPrice)
			difference = &d
		}

		records = append(records, PriceRecord{
			Hotel:       key.HotelID,
			Price:       currentPrice,
			Currency:    currency,
			Difference:  difference,
			ArrivalDate: key.ArrivalDay.String(),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Hotel != records[j].Hotel {
			return records[i].Hotel < records[j].Hotel
		}
		return records[i].ArrivalDate < records[j].ArrivalDate
	})
	return records
}
