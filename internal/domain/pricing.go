package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingExtract is one capture snapshot: the priced offers seen for one
// hotel and one arrival date at a single capture instant. Extracts are
// immutable once fetched; derive copies via WithPrices instead of mutating.
type PricingExtract struct {
	HotelID      int64       `json:"hotelId"`
	ArrivalDay   ArrivalDay  `json:"arrivalDay"`
	ExtractDay   ArrivalDay  `json:"extractDay"` // capture date as a day index
	ExtractedAt  time.Time   `json:"extractedAt"`
	LengthOfStay int         `json:"lengthOfStay"`
	PointOfSale  string      `json:"pointOfSale"`
	Prices       []PriceInfo `json:"prices"`
}

// WithPrices returns a copy of the extract with its offers replaced.
func (e PricingExtract) WithPrices(prices []PriceInfo) PricingExtract {
	e.Prices = prices
	return e
}

// PriceInfo is one priced offer inside a snapshot. Only Currency,
// PriceValue and IsCancellable matter to the comparison pipeline; the rest
// is descriptive payload carried along untouched.
type PriceInfo struct {
	Currency            string          `json:"currency"`
	PriceValue          decimal.Decimal `json:"priceValue"`
	IsCancellable       bool            `json:"isCancellable"`
	IsBestAvailableRate bool            `json:"isBestAvailableRate"`
	MaxPersons          int             `json:"maxPersons"`
	PriceID             string          `json:"priceId"`
	RoomName            string          `json:"roomName"`
}

// HotelArrivalKey identifies one product (a specific hotel on a specific
// stay date) across snapshots and across the two windows being compared.
type HotelArrivalKey struct {
	HotelID    int64
	ArrivalDay ArrivalDay
}

// HotelExtractDate is the most recent capture instant known for a hotel.
type HotelExtractDate struct {
	HotelID     int64     `json:"hotel"`
	ExtractedAt time.Time `json:"extracted_at"`
}
