package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// FundamentalFrequency selects the reporting period of financial statements
type FundamentalFrequency string

const (
	FrequencyQuarterly FundamentalFrequency = "quarterly"
	FrequencyAnnual    FundamentalFrequency = "annual"
)

// ParseFundamentalFrequency normalizes a frequency name. Empty means
// quarterly and "yearly" is accepted for annual.
func ParseFundamentalFrequency(raw string) (FundamentalFrequency, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "quarterly":
		return FrequencyQuarterly, nil
	case "annual", "yearly":
		return FrequencyAnnual, nil
	default:
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidFrequency)
	}
}

// PeriodLabel names the period containing t: "2024Q3" or "2024"
func (f FundamentalFrequency) PeriodLabel(t time.Time) string {
	if f == FrequencyAnnual {
		return fmt.Sprintf("%d", t.Year())
	}
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

// FundamentalPeriod holds every statement line item reported for one period
type FundamentalPeriod struct {
	Period string             `json:"period"`
	Values map[string]float64 `json:"values"`
}

// Fundamentals is the combined income statement, balance sheet and cash flow
// of one ticker, one row per period in ascending order.
type Fundamentals struct {
	Symbol    TickerSymbol         `json:"symbol"`
	Frequency FundamentalFrequency `json:"frequency"`
	Currency  string               `json:"currency,omitempty"`
	Periods   []FundamentalPeriod  `json:"periods"`
}

// Empty reports whether no period was reported
func (f Fundamentals) Empty() bool {
	return len(f.Periods) == 0
}

// Fields returns the union of line items across periods, sorted
func (f Fundamentals) Fields() []string {
	seen := make(map[string]struct{})
	for _, p := range f.Periods {
		for field := range p.Values {
			seen[field] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for field := range seen {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// FundamentalsSource downloads financial statements for a ticker
type FundamentalsSource interface {
	Fundamentals(ctx context.Context, symbol TickerSymbol, freq FundamentalFrequency) (Fundamentals, error)
}
