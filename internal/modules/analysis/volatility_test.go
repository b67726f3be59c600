package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pfa/pkg/formulas"
)

func TestRollingVolatility(t *testing.T) {
	m := matrix([]string{"AAA", "BBB"},
		[]float64{0.01, 0.02},
		[]float64{-0.02, 0.01},
		[]float64{0.03, -0.01},
		[]float64{0.00, 0.02},
		[]float64{0.01, 0.00},
	)

	result := RollingVolatility(m, 3)
	require.Len(t, result.Values, 3)
	assert.Equal(t, 3, result.Window)
	assert.Equal(t, m.Dates[2:], result.Dates)
	assert.Equal(t, m.Tickers, result.Tickers)

	assert.InDelta(t, formulas.PopStdDev([]float64{0.01, -0.02, 0.03}), result.Values[0][0], 1e-9)
	assert.InDelta(t, formulas.PopStdDev([]float64{0.02, 0.01, -0.01}), result.Values[0][1], 1e-9)
	assert.InDelta(t, formulas.PopStdDev([]float64{0.03, 0.00, 0.01}), result.Values[2][0], 1e-9)
}

func TestRollingVolatility_NotEnoughRows(t *testing.T) {
	m := matrix([]string{"AAA"}, []float64{0.01}, []float64{0.02})

	result := RollingVolatility(m, 0)
	assert.True(t, result.Empty())
	assert.Equal(t, formulas.DefaultVolatilityWindow, result.Window)

	assert.True(t, RollingVolatility(ReturnMatrix{}, 3).Empty())
}
