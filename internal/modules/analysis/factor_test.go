package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pfa/internal/domain"
	testingpkg "github.com/aristath/pfa/internal/testing"
)

func matrix(tickers []string, rows ...[]float64) ReturnMatrix {
	m := ReturnMatrix{Tickers: symbols(tickers...), Values: rows}
	for i := range rows {
		m.Dates = append(m.Dates, testingpkg.Day(i+1))
	}
	return m
}

func watchlistReturns(t *testing.T) ReturnMatrix {
	t.Helper()
	builder, _, _, _ := newTestBuilder(testingpkg.NewWatchlistSeries())
	m := builder.Build(context.Background(), symbols("AAA", "BBB", "CCC"), domain.IntervalDaily, testingpkg.FixtureStart)
	require.False(t, m.Empty())
	return m
}

func TestFactorAnalyzer_EmptyInput(t *testing.T) {
	analyzer := NewFactorAnalyzer(testLogger())
	assert.True(t, analyzer.Analyze(ReturnMatrix{}).Empty())
}

func TestFactorAnalyzer_CumulativeVariance(t *testing.T) {
	result := NewFactorAnalyzer(testLogger()).Analyze(watchlistReturns(t))
	require.False(t, result.Empty())

	assert.Equal(t, []string{"P1", "P2", "P3"}, result.Components)
	assert.Equal(t, symbols("AAA", "BBB", "CCC"), result.Tickers)
	require.Len(t, result.CumulativeVariance, 3)

	for i := 1; i < len(result.CumulativeVariance); i++ {
		assert.GreaterOrEqual(t, result.CumulativeVariance[i], result.CumulativeVariance[i-1])
	}
	assert.Greater(t, result.CumulativeVariance[0], 0.0)
	assert.InDelta(t, 1.0, result.CumulativeVariance[2], 1e-12)

	sum := 0.0
	for i, v := range result.ExplainedVariance {
		if i > 0 {
			assert.LessOrEqual(t, v, result.ExplainedVariance[i-1]+1e-12, "components ordered by explained variance")
		}
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestFactorAnalyzer_LoadingsAreUnitVectors(t *testing.T) {
	result := NewFactorAnalyzer(testLogger()).Analyze(watchlistReturns(t))
	require.Len(t, result.Loadings, 3)

	for c, loading := range result.Loadings {
		require.Len(t, loading, 3)
		norm := 0.0
		largest := 0
		for j, v := range loading {
			norm += v * v
			if math.Abs(v) > math.Abs(loading[largest]) {
				largest = j
			}
		}
		assert.InDelta(t, 1.0, norm, 1e-9, "component %s", result.Components[c])
		assert.GreaterOrEqual(t, loading[largest], 0.0)
	}
}

func TestFactorAnalyzer_TwoTickerScenario(t *testing.T) {
	m := matrix([]string{"AAA", "BBB"},
		[]float64{math.Log(11.0 / 10.0), math.Log(19.0 / 20.0)},
		[]float64{math.Log(9.0 / 11.0), math.Log(21.0 / 19.0)},
	)

	result := NewFactorAnalyzer(testLogger()).Analyze(m)
	require.Equal(t, []string{"P1", "P2"}, result.Components)

	// Two observations of anti-moving assets: one factor explains everything
	assert.InDelta(t, 1.0, result.CumulativeVariance[0], 1e-9)
	assert.InDelta(t, 1.0, result.CumulativeVariance[1], 1e-12)
	assert.InDelta(t, math.Sqrt2/2, math.Abs(result.Loadings[0][0]), 1e-9)
	assert.InDelta(t, math.Sqrt2/2, math.Abs(result.Loadings[0][1]), 1e-9)
	assert.Less(t, result.Loadings[0][0]*result.Loadings[0][1], 0.0)
}

func TestFactorAnalyzer_SingleTicker(t *testing.T) {
	m := matrix([]string{"AAA"}, []float64{0.01}, []float64{-0.02}, []float64{0.03})

	result := NewFactorAnalyzer(testLogger()).Analyze(m)
	assert.Equal(t, []string{"P1"}, result.Components)
	assert.Equal(t, []float64{1.0}, result.CumulativeVariance)
	require.Len(t, result.Loadings, 1)
	assert.InDelta(t, 1.0, result.Loadings[0][0], 1e-12)
}

func TestFactorAnalyzer_DegenerateInputs(t *testing.T) {
	analyzer := NewFactorAnalyzer(testLogger())

	oneRow := matrix([]string{"AAA", "BBB"}, []float64{0.01, 0.02})
	assert.True(t, analyzer.Analyze(oneRow).Empty())

	constant := matrix([]string{"AAA", "BBB"},
		[]float64{0.01, 0.02},
		[]float64{0.01, 0.02},
		[]float64{0.01, 0.02},
	)
	assert.True(t, analyzer.Analyze(constant).Empty())
}

func TestFactorAnalyzer_FewerRowsThanTickers(t *testing.T) {
	m := matrix([]string{"AAA", "BBB", "CCC", "DDD"},
		[]float64{0.01, 0.02, -0.01, 0.00},
		[]float64{-0.02, 0.01, 0.03, 0.01},
		[]float64{0.03, -0.01, 0.00, -0.02},
	)

	result := NewFactorAnalyzer(testLogger()).Analyze(m)
	require.Len(t, result.Components, 3)
	for _, loading := range result.Loadings {
		assert.Len(t, loading, 4)
	}
	assert.InDelta(t, 1.0, result.CumulativeVariance[len(result.CumulativeVariance)-1], 1e-12)
}
