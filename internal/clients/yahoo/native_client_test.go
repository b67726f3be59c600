package yahoo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"golang.org/x/time/rate"

	"github.com/aristath/pfa/internal/domain"
)

func TestNewNativeClient(t *testing.T) {
	client := NewNativeClient(NewLimiter(0), zerolog.New(nil).Level(zerolog.Disabled))

	assert.NotNil(t, client)
	assert.NotNil(t, client.history)
}

func TestNativeClient_GetHistoricalPrices(t *testing.T) {
	client := NewNativeClient(nil, zerolog.New(nil).Level(zerolog.Disabled))

	var gotSymbol string
	var gotParams models.HistoryParams
	client.history = func(symbol string, params models.HistoryParams) ([]models.Bar, error) {
		gotSymbol = symbol
		gotParams = params
		return []models.Bar{
			{Date: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
			{Date: time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC), Open: 10.5, High: 12, Low: 10, Close: 11.5, Volume: 200},
		}, nil
	}

	series, err := client.GetHistoricalPrices(context.Background(), "msft", domain.IntervalWeekly)
	require.NoError(t, err)

	assert.Equal(t, "MSFT", gotSymbol)
	assert.Equal(t, "max", gotParams.Period)
	assert.Equal(t, "1wk", gotParams.Interval)
	assert.True(t, gotParams.AutoAdjust)

	require.Equal(t, 2, series.Len())
	assert.Equal(t, domain.IntervalWeekly, series.Interval)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), series.Bars[0].Date)
	assert.Equal(t, 11.5, series.Bars[1].Close)
	assert.Equal(t, 200.0, series.Bars[1].Volume)
}

func TestNativeClient_FetchReturnsEmptyOnFailure(t *testing.T) {
	client := NewNativeClient(nil, zerolog.New(nil).Level(zerolog.Disabled))
	client.history = func(string, models.HistoryParams) ([]models.Bar, error) {
		return nil, errors.New("no data")
	}

	series := client.Fetch(context.Background(), "GONE", domain.IntervalDaily)
	assert.True(t, series.Empty())
	assert.Equal(t, domain.TickerSymbol("GONE"), series.Symbol)
}

func TestNativeClient_FetchRespectsLimiterCancellation(t *testing.T) {
	client := NewNativeClient(NewLimiter(1), zerolog.New(nil).Level(zerolog.Disabled))
	calls := 0
	client.history = func(string, models.HistoryParams) ([]models.Bar, error) {
		calls++
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, client.Fetch(ctx, "AAPL", domain.IntervalDaily).Empty())
	assert.Equal(t, 0, calls)
}

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, NewLimiter(0).Limit())
	assert.InDelta(t, 2.0, float64(NewLimiter(2).Limit()), 1e-9)
	assert.Equal(t, 1, NewLimiter(2).Burst())
}
