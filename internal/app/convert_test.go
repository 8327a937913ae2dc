package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pricing_insights/internal/app"
	"pricing_insights/internal/domain"
)

// ---- fakes ----

type fakeRateLookup struct {
	rates map[string]domain.CurrencyExchangeRate
	calls int
	err   error
}

func (f *fakeRateLookup) GetForCurrency(ctx context.Context, currency string, monthAnchor time.Time) (*domain.CurrencyExchangeRate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.rates[currency]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func anchor() time.Time { return time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC) }

// ---- tests ----

func TestConvertPrice_SameCurrencyIsPassThrough(t *testing.T) {
	lookup := &fakeRateLookup{}
	c := app.NewConverter(lookup)

	price := domain.PriceInfo{Currency: "EUR", PriceValue: dec("112.95"), RoomName: "double"}
	got, err := c.ConvertPrice(context.Background(), price, "EUR", anchor())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got == nil || got.Currency != "EUR" || !got.PriceValue.Equal(dec("112.95")) || got.RoomName != "double" {
		t.Fatalf("expected identical price back, got %+v", got)
	}
	if lookup.calls != 0 {
		t.Fatalf("pass-through must not hit the rate store, got %d lookups", lookup.calls)
	}
}

func TestConvertPrice_NoRateMeansAbsentNotError(t *testing.T) {
	c := app.NewConverter(&fakeRateLookup{})

	got, err := c.ConvertPrice(context.Background(), domain.PriceInfo{Currency: "BTC", PriceValue: dec("1")}, "USD", anchor())
	if err != nil {
		t.Fatalf("missing rate must not be an error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected absent result, got %+v", got)
	}
}

func TestConvertPrice_AppliesRateAndLabelsUSD(t *testing.T) {
	lookup := &fakeRateLookup{rates: map[string]domain.CurrencyExchangeRate{
		"EUR": {Currency: "EUR", UsdConversionRate: dec("1.1295"), ExtractDate: anchor()},
	}}
	c := app.NewConverter(lookup)

	got, err := c.ConvertPrice(context.Background(), domain.PriceInfo{Currency: "EUR", PriceValue: dec("112.95")}, "USD", anchor())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a converted price")
	}
	if got.Currency != "USD" {
		t.Fatalf("currency: %q", got.Currency)
	}
	// 112.95 * 1.1295 = 127.577025 -> 127.58
	if !got.PriceValue.Equal(dec("127.58")) {
		t.Fatalf("price: %s", got.PriceValue)
	}
}

// Pins the rounding rule: banker's rounding (half to even) at cent
// precision, so an exact half rounds down when the cent digit is even.
func TestConvertPrice_BankersRounding(t *testing.T) {
	lookup := &fakeRateLookup{rates: map[string]domain.CurrencyExchangeRate{
		"EUR": {Currency: "EUR", UsdConversionRate: dec("0.4450"), ExtractDate: anchor()},
	}}
	c := app.NewConverter(lookup)

	// 25 * 0.4450 = 11.125 -> 11.12 (half to even), not 11.13
	got, err := c.ConvertPrice(context.Background(), domain.PriceInfo{Currency: "EUR", PriceValue: dec("25")}, "USD", anchor())
	if err != nil || got == nil {
		t.Fatalf("got=%v err=%v", got, err)
	}
	if !got.PriceValue.Equal(dec("11.12")) {
		t.Fatalf("expected 11.12, got %s", got.PriceValue)
	}

	// 75 * 0.4450 = 33.375 -> 33.38 (half to even rounds up here)
	got, err = c.ConvertPrice(context.Background(), domain.PriceInfo{Currency: "EUR", PriceValue: dec("75")}, "USD", anchor())
	if err != nil || got == nil {
		t.Fatalf("got=%v err=%v", got, err)
	}
	if !got.PriceValue.Equal(dec("33.38")) {
		t.Fatalf("expected 33.38, got %s", got.PriceValue)
	}
}

// Documented protocol quirk: converting to a non-USD target resolves the
// rate for the price's own currency and still labels the result "USD"; only
// a target equal to the source currency short-circuits.
func TestConvertPrice_NonUSDTargetStillResolvesSourceCurrency(t *testing.T) {
	lookup := &fakeRateLookup{rates: map[string]domain.CurrencyExchangeRate{
		"USD": {Currency: "USD", UsdConversionRate: dec("1"), ExtractDate: anchor()},
	}}
	c := app.NewConverter(lookup)

	got, err := c.ConvertPrice(context.Background(), domain.PriceInfo{Currency: "USD", PriceValue: dec("85")}, "EUR", anchor())
	if err != nil || got == nil {
		t.Fatalf("got=%v err=%v", got, err)
	}
	if got.Currency != "USD" {
		t.Fatalf("result label must stay USD, got %q", got.Currency)
	}
	if !got.PriceValue.Equal(dec("85")) {
		t.Fatalf("price: %s", got.PriceValue)
	}
	if lookup.calls != 1 {
		t.Fatalf("expected exactly one lookup for the source currency, got %d", lookup.calls)
	}
}

func TestConvertPrice_LookupFailurePropagates(t *testing.T) {
	boom := errors.New("rate store down")
	c := app.NewConverter(&fakeRateLookup{err: boom})

	_, err := c.ConvertPrice(context.Background(), domain.PriceInfo{Currency: "EUR", PriceValue: dec("1")}, "USD", anchor())
	if !errors.Is(err, boom) {
		t.Fatalf("expected store failure to propagate, got %v", err)
	}
}
