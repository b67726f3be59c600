package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskAnalyzer_EmptyInput(t *testing.T) {
	assert.True(t, NewRiskAnalyzer(testLogger()).Analyze(ReturnMatrix{}).Empty())
}

func TestRiskAnalyzer_TwoTickerScenario(t *testing.T) {
	a1, a2 := math.Log(11.0/10.0), math.Log(9.0/11.0)
	b1, b2 := math.Log(19.0/20.0), math.Log(21.0/19.0)
	m := matrix([]string{"AAA", "BBB"}, []float64{a1, b1}, []float64{a2, b2})

	result := NewRiskAnalyzer(testLogger()).Analyze(m)
	require.False(t, result.Empty())

	require.Len(t, result.StdDev, 2)
	assert.InDelta(t, math.Abs(a1-a2)/math.Sqrt2, result.StdDev[0], 1e-12)
	assert.InDelta(t, math.Abs(b1-b2)/math.Sqrt2, result.StdDev[1], 1e-12)

	require.Len(t, result.Covariance, 2)
	assert.InDelta(t, (a1-a2)*(b1-b2)/2, result.Covariance[0][1], 1e-12)
	assert.Equal(t, result.Covariance[0][1], result.Covariance[1][0])
	assert.InDelta(t, -1.0, result.Correlation[0][1], 1e-9)
}

func TestRiskAnalyzer_CovarianceProperties(t *testing.T) {
	result := NewRiskAnalyzer(testLogger()).Analyze(watchlistReturns(t))
	require.Len(t, result.Covariance, 3)

	for i := range result.Covariance {
		assert.InDelta(t, result.StdDev[i]*result.StdDev[i], result.Covariance[i][i], 1e-12)
		assert.Equal(t, 1.0, result.Correlation[i][i])
		for j := range result.Covariance {
			assert.InDelta(t, result.Covariance[i][j], result.Covariance[j][i], 1e-15)
			assert.LessOrEqual(t, math.Abs(result.Correlation[i][j]), 1.0)
		}
	}
}

func TestRiskAnalyzer_SingleRowIsEmpty(t *testing.T) {
	m := matrix([]string{"AAA"}, []float64{0.01})
	assert.True(t, NewRiskAnalyzer(testLogger()).Analyze(m).Empty())
}

func TestCorrelation_ZeroVariance(t *testing.T) {
	corr := Correlation([][]float64{
		{0.04, 0},
		{0, 0},
	})
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, corr)
}
