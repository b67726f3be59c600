package fundamentals

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pfa/internal/domain"
	testingpkg "github.com/aristath/pfa/internal/testing"
)

func TestService_Get(t *testing.T) {
	source := testingpkg.NewMockFundamentalsSource()
	source.Set("AAPL", []domain.FundamentalPeriod{
		{Period: "2024Q1", Values: map[string]float64{"TotalRevenue": 100}},
	})
	service := NewService(source, zerolog.New(nil).Level(zerolog.Disabled))

	result, err := service.Get(context.Background(), " aapl ", "")
	require.NoError(t, err)

	assert.Equal(t, domain.TickerSymbol("AAPL"), result.Symbol)
	assert.Equal(t, domain.FrequencyQuarterly, result.Frequency)
	require.Len(t, result.Periods, 1)
	assert.Equal(t, 100.0, result.Periods[0].Values["TotalRevenue"])
}

func TestService_GetInvalidInput(t *testing.T) {
	service := NewService(testingpkg.NewMockFundamentalsSource(), zerolog.New(nil).Level(zerolog.Disabled))

	_, err := service.Get(context.Background(), "  ", "quarterly")
	assert.True(t, errors.Is(err, domain.ErrEmptySymbol))

	_, err = service.Get(context.Background(), "AAPL", "weekly")
	assert.True(t, errors.Is(err, domain.ErrInvalidFrequency))
}

func TestService_GetSourceFailureIsEmpty(t *testing.T) {
	source := testingpkg.NewMockFundamentalsSource()
	source.Err = errors.New("provider down")
	service := NewService(source, zerolog.New(nil).Level(zerolog.Disabled))

	result, err := service.Get(context.Background(), "MSFT", "yearly")
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Equal(t, domain.TickerSymbol("MSFT"), result.Symbol)
	assert.Equal(t, domain.FrequencyAnnual, result.Frequency)
}
