package yahoo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
	"golang.org/x/time/rate"

	"github.com/aristath/pfa/internal/domain"
)

// historyFunc downloads the bar history of one symbol
type historyFunc func(symbol string, params models.HistoryParams) ([]models.Bar, error)

// NativeClient fetches price history using the go-yfinance library
type NativeClient struct {
	limiter    *rate.Limiter
	history    historyFunc
	statements statementsFunc
	log        zerolog.Logger
}

// NewNativeClient creates a new native Yahoo Finance client
func NewNativeClient(limiter *rate.Limiter, log zerolog.Logger) *NativeClient {
	return &NativeClient{
		limiter:    limiter,
		history:    tickerHistory,
		statements: tickerStatements,
		log:        log.With().Str("client", "yahoo-native").Logger(),
	}
}

func tickerHistory(symbol string, params models.HistoryParams) ([]models.Bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(params)
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}
	return bars, nil
}

// Fetch returns the full available history of symbol, or an empty series
// on any failure.
func (c *NativeClient) Fetch(ctx context.Context, symbol domain.TickerSymbol, interval domain.Interval) domain.PriceSeries {
	series, err := c.GetHistoricalPrices(ctx, symbol, interval)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", symbol.String()).Str("interval", string(interval)).Msg("Price source unavailable")
		return domain.PriceSeries{Symbol: symbol, Interval: interval}
	}
	return series
}

// GetHistoricalPrices downloads the maximum available history for symbol
func (c *NativeClient) GetHistoricalPrices(ctx context.Context, symbol domain.TickerSymbol, interval domain.Interval) (domain.PriceSeries, error) {
	symbol = domain.NewTickerSymbol(string(symbol))
	series := domain.PriceSeries{Symbol: symbol, Interval: interval}

	if err := wait(ctx, c.limiter); err != nil {
		return series, err
	}

	bars, err := c.history(symbol.String(), models.HistoryParams{
		Period:     "max",
		Interval:   string(interval),
		AutoAdjust: true,
	})
	if err != nil {
		return series, err
	}

	series.Bars = make([]domain.PriceBar, 0, len(bars))
	for _, bar := range bars {
		series.Bars = append(series.Bars, domain.PriceBar{
			Date:   domain.NormalizeBarDate(bar.Date, interval),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: float64(bar.Volume),
		})
	}

	c.log.Debug().
		Str("ticker", symbol.String()).
		Str("interval", string(interval)).
		Int("count", len(series.Bars)).
		Msg("Fetched historical prices")

	return series, nil
}

var _ domain.PriceSource = (*NativeClient)(nil)
