package testing

import (
	"time"

	"github.com/aristath/pfa/internal/domain"
)

// FixtureStart is the first bar date used by the price fixtures
var FixtureStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Day returns FixtureStart shifted by n calendar days
func Day(n int) time.Time {
	return FixtureStart.AddDate(0, 0, n)
}

// NewPriceSeries builds a daily series with one bar per close, starting at
// FixtureStart on consecutive days.
func NewPriceSeries(symbol string, closes ...float64) domain.PriceSeries {
	return NewPriceSeriesFrom(symbol, FixtureStart, closes...)
}

// NewPriceSeriesFrom builds a daily series starting at start
func NewPriceSeriesFrom(symbol string, start time.Time, closes ...float64) domain.PriceSeries {
	bars := make([]domain.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = domain.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return domain.PriceSeries{
		Symbol:   domain.NewTickerSymbol(symbol),
		Interval: domain.IntervalDaily,
		Bars:     bars,
	}
}

// NewWatchlistSeries returns a small multi-ticker universe with overlapping
// but unequal histories.
func NewWatchlistSeries() map[string]domain.PriceSeries {
	return map[string]domain.PriceSeries{
		"AAA": NewPriceSeries("AAA", 10, 11, 9, 10, 12, 11, 13),
		"BBB": NewPriceSeries("BBB", 20, 19, 21, 22, 20, 21, 23),
		"CCC": NewPriceSeriesFrom("CCC", Day(1), 5, 5.5, 5.2, 5.8, 6.1, 5.9),
	}
}
