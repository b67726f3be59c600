package formulas

import (
	"github.com/markcheno/go-talib"
)

// DefaultVolatilityWindow is the rolling window used when none is requested.
const DefaultVolatilityWindow = 20

// RollingStdDev calculates the rolling population standard deviation of data
// over window observations. The talib lookback period is trimmed, so the
// result has len(data)-window+1 entries; element i covers data[i : i+window].
func RollingStdDev(data []float64, window int) []float64 {
	if window < 2 || len(data) < window {
		return []float64{}
	}

	// Parameters: inReal, inTimePeriod, inNbDev
	out := talib.StdDev(data, window, 1.0)

	trimmed := make([]float64, len(data)-window+1)
	copy(trimmed, out[window-1:])
	return trimmed
}
