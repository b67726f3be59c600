package yahoo

import (
	"context"
	"fmt"
	"sort"

	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"github.com/aristath/pfa/internal/domain"
)

// statementsFunc downloads the income statement, balance sheet and cash flow
// of one symbol, in that order
type statementsFunc func(symbol string, freq string) ([]*models.FinancialStatement, error)

func tickerStatements(symbol string, freq string) ([]*models.FinancialStatement, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	income, err := t.IncomeStatement(freq)
	if err != nil {
		return nil, fmt.Errorf("failed to get income statement: %w", err)
	}
	balance, err := t.BalanceSheet(freq)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance sheet: %w", err)
	}
	cashFlow, err := t.CashFlow(freq)
	if err != nil {
		return nil, fmt.Errorf("failed to get cash flow: %w", err)
	}
	return []*models.FinancialStatement{income, balance, cashFlow}, nil
}

// Fundamentals downloads the financial statements of symbol and combines
// them into one row per period
func (c *NativeClient) Fundamentals(ctx context.Context, symbol domain.TickerSymbol, freq domain.FundamentalFrequency) (domain.Fundamentals, error) {
	symbol = domain.NewTickerSymbol(string(symbol))
	result := domain.Fundamentals{Symbol: symbol, Frequency: freq}

	if err := wait(ctx, c.limiter); err != nil {
		return result, err
	}

	statements, err := c.statements(symbol.String(), string(freq))
	if err != nil {
		return result, err
	}

	result.Currency, result.Periods = mergeStatements(freq, statements)

	c.log.Debug().
		Str("ticker", symbol.String()).
		Str("frequency", string(freq)).
		Int("periods", len(result.Periods)).
		Msg("Fetched fundamentals")

	return result, nil
}

// mergeStatements pivots statement line items into periods. Items reported
// twice for a period keep the earliest statement's value.
func mergeStatements(freq domain.FundamentalFrequency, statements []*models.FinancialStatement) (string, []domain.FundamentalPeriod) {
	currency := ""
	byPeriod := make(map[string]map[string]float64)

	for _, stmt := range statements {
		if stmt == nil {
			continue
		}
		if currency == "" {
			currency = stmt.Currency
		}

		fields := stmt.Fields()
		sort.Strings(fields)
		for _, field := range fields {
			items := append([]models.FinancialItem(nil), stmt.Data[field]...)
			sort.SliceStable(items, func(i, j int) bool {
				return items[i].AsOfDate.Before(items[j].AsOfDate)
			})
			for _, item := range items {
				label := freq.PeriodLabel(item.AsOfDate)
				values, ok := byPeriod[label]
				if !ok {
					values = make(map[string]float64)
					byPeriod[label] = values
				}
				if _, set := values[field]; !set {
					values[field] = item.Value
				}
			}
		}
	}

	labels := make([]string, 0, len(byPeriod))
	for label := range byPeriod {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	periods := make([]domain.FundamentalPeriod, 0, len(labels))
	for _, label := range labels {
		periods = append(periods, domain.FundamentalPeriod{Period: label, Values: byPeriod[label]})
	}
	return currency, periods
}

var _ domain.FundamentalsSource = (*NativeClient)(nil)
