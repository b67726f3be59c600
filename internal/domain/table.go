package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Table is a raw table as stored in the cache: named columns and untyped cells.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Empty reports whether the table holds no rows
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the index of the first column matching one of names
// (case-insensitive), or -1.
func (t Table) ColumnIndex(names ...string) int {
	for _, name := range names {
		for i, col := range t.Columns {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i
			}
		}
	}
	return -1
}

// Column names accepted as the date index and as the close price.
var (
	dateColumnNames  = []string{"Date", "Datetime", "Timestamp"}
	closeColumnNames = []string{"Close", "Adj Close", "AdjClose"}
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
}

// SeriesFromTable converts a cached table back into a PriceSeries, sorted by
// date. Missing OHLC cells become NaN. Returns ErrMissingDateColumn,
// ErrMissingCloseColumn, ErrInvalidDate or ErrNonNumeric (wrapped) when the
// table cannot be interpreted.
func SeriesFromTable(symbol TickerSymbol, interval Interval, t Table) (PriceSeries, error) {
	dateIdx := t.ColumnIndex(dateColumnNames...)
	if dateIdx < 0 {
		return PriceSeries{}, fmt.Errorf("%s: %w", symbol, ErrMissingDateColumn)
	}
	closeIdx := t.ColumnIndex(closeColumnNames...)
	if closeIdx < 0 {
		return PriceSeries{}, fmt.Errorf("%s: %w", symbol, ErrMissingCloseColumn)
	}
	openIdx := t.ColumnIndex("Open")
	highIdx := t.ColumnIndex("High")
	lowIdx := t.ColumnIndex("Low")
	volumeIdx := t.ColumnIndex("Volume")

	bars := make([]PriceBar, 0, len(t.Rows))
	for rowNum, row := range t.Rows {
		date, err := parseDateCell(cell(row, dateIdx))
		if err != nil {
			return PriceSeries{}, fmt.Errorf("%s row %d: %w", symbol, rowNum, err)
		}

		closePrice, err := parseNumericCell(cell(row, closeIdx))
		if err != nil {
			return PriceSeries{}, fmt.Errorf("%s row %d close: %w", symbol, rowNum, err)
		}

		bar := PriceBar{
			Date:   NormalizeBarDate(date, interval),
			Close:  closePrice,
			Open:   optionalNumeric(row, openIdx),
			High:   optionalNumeric(row, highIdx),
			Low:    optionalNumeric(row, lowIdx),
			Volume: optionalNumeric(row, volumeIdx),
		}
		bars = append(bars, bar)
	}

	return PriceSeries{Symbol: symbol, Interval: interval, Bars: bars}.Sorted(), nil
}

func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// optionalNumeric reads a non-essential column; anything unusable is NaN.
func optionalNumeric(row []any, idx int) float64 {
	if idx < 0 {
		return math.NaN()
	}
	v, err := parseNumericCell(cell(row, idx))
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseNumericCell accepts the numeric types a SQL driver returns. NULL maps
// to NaN (a missing value); text is rejected as non-numeric.
func parseNumericCell(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrNonNumeric, v, v)
	}
}

func parseDateCell(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case int64:
		return time.Unix(d, 0).UTC(), nil
	case []byte:
		return parseDateString(string(d))
	case string:
		return parseDateString(d)
	default:
		return time.Time{}, fmt.Errorf("%w: %v (%T)", ErrInvalidDate, v, v)
	}
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
