package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pricing_insights/internal/adapters/observability"
	"pricing_insights/internal/domain"
)

// Repo reads pricing snapshots from the pricing_extracts table. Each row
// holds one capture: key columns for filtering plus the offers as a JSON
// payload, the way the capture pipeline wrote them.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Get(ctx context.Context, hotelIDs []int64, arrivalMonth time.Time, window domain.ExtractWindow) ([]domain.PricingExtract, error) {
	if len(hotelIDs) == 0 {
		return nil, nil
	}

	u := arrivalMonth.UTC()
	monthStart := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	dayFrom := domain.ArrivalDayFromDate(monthStart)
	dayTo := domain.ArrivalDayFromDate(monthStart.AddDate(0, 1, 0))

	args := make([]any, 0, len(hotelIDs)+4)
	for _, id := range hotelIDs {
		args = append(args, id)
	}
	args = append(args, int(dayFrom), int(dayTo), window.StartUTC, window.EndUTCExclusive)

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(getExtractsSQL, placeholders(len(hotelIDs))), args...)
	observability.ObserveStore("mysql", "get_extracts", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PricingExtract
	for rows.Next() {
		var e domain.PricingExtract
		var arrivalDay, extractDay int
		var pos sql.NullString
		var pricesJSON []byte
		if err := rows.Scan(&e.HotelID, &arrivalDay, &extractDay, &e.ExtractedAt, &e.LengthOfStay, &pos, &pricesJSON); err != nil {
			return nil, err
		}
		e.ArrivalDay = domain.ArrivalDay(arrivalDay)
		e.ExtractDay = domain.ArrivalDay(extractDay)
		if pos.Valid {
			e.PointOfSale = pos.String
		}
		if err := json.Unmarshal(pricesJSON, &e.Prices); err != nil {
			return nil, fmt.Errorf("decode prices payload for hotel %d: %w", e.HotelID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) LatestExtracts(ctx context.Context, hotelIDs []int64) ([]domain.HotelExtractDate, error) {
	if len(hotelIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(hotelIDs))
	for _, id := range hotelIDs {
		args = append(args, id)
	}

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(latestExtractsSQL, placeholders(len(hotelIDs))), args...)
	observability.ObserveStore("mysql", "latest_extracts", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelExtractDate
	for rows.Next() {
		var d domain.HotelExtractDate
		if err := rows.Scan(&d.HotelID, &d.ExtractedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
