// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Interval is a price sampling interval in provider notation ("1d", "1wk", ...)
type Interval string

const (
	IntervalDaily   Interval = "1d"
	IntervalWeekly  Interval = "1wk"
	IntervalMonthly Interval = "1mo"
)

// IsIntraday reports whether bars at this interval carry a time of day.
func (i Interval) IsIntraday() bool {
	s := string(i)
	return strings.HasSuffix(s, "m") && !strings.HasSuffix(s, "mo") || strings.HasSuffix(s, "h")
}

// TickerSymbol identifies one tradable instrument. Always normalized.
type TickerSymbol string

// NewTickerSymbol trims and upper-cases a raw symbol
func NewTickerSymbol(raw string) TickerSymbol {
	return TickerSymbol(strings.ToUpper(strings.TrimSpace(raw)))
}

// String returns the symbol text
func (t TickerSymbol) String() string {
	return string(t)
}

// CacheKey returns the cache table name for this symbol at the given interval
func (t TickerSymbol) CacheKey(interval Interval) string {
	return fmt.Sprintf("%s_%s", t, interval)
}

// PriceBar is one OHLCV observation
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is the date-indexed price history of one ticker at one interval
type PriceSeries struct {
	Symbol   TickerSymbol `json:"symbol"`
	Interval Interval     `json:"interval"`
	Bars     []PriceBar   `json:"bars"`
}

// Empty reports whether the series holds no bars
func (s PriceSeries) Empty() bool {
	return len(s.Bars) == 0
}

// Len returns the number of bars
func (s PriceSeries) Len() int {
	return len(s.Bars)
}

// Sorted returns a copy ordered by date. When a date repeats, the last bar
// for that date wins.
func (s PriceSeries) Sorted() PriceSeries {
	bars := make([]PriceBar, len(s.Bars))
	copy(bars, s.Bars)
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	deduped := bars[:0]
	for _, bar := range bars {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(bar.Date) {
			deduped[n-1] = bar
			continue
		}
		deduped = append(deduped, bar)
	}

	return PriceSeries{Symbol: s.Symbol, Interval: s.Interval, Bars: deduped}
}

// Since returns the bars dated on or after start
func (s PriceSeries) Since(start time.Time) PriceSeries {
	bars := make([]PriceBar, 0, len(s.Bars))
	for _, bar := range s.Bars {
		if !bar.Date.Before(start) {
			bars = append(bars, bar)
		}
	}
	return PriceSeries{Symbol: s.Symbol, Interval: s.Interval, Bars: bars}
}

// NormalizeBarDate maps a provider timestamp onto the series index. Daily and
// coarser bars are keyed by calendar date (taken in the timestamp's own
// location) so that series from different exchanges align; intraday bars keep
// their instant in UTC.
func NormalizeBarDate(t time.Time, interval Interval) time.Time {
	if interval.IsIntraday() {
		return t.UTC()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
