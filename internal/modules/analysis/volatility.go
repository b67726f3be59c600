package analysis

import (
	"time"

	"github.com/aristath/pfa/internal/domain"
	"github.com/aristath/pfa/pkg/formulas"
)

// VolatilityResult is the rolling standard deviation of returns per ticker
type VolatilityResult struct {
	Window  int                   `json:"window"`
	Dates   []time.Time           `json:"dates"`
	Tickers []domain.TickerSymbol `json:"tickers"`
	// Values is date × ticker, aligned with Dates
	Values [][]float64 `json:"values"`
}

// Empty reports whether the result is the empty sentinel
func (r VolatilityResult) Empty() bool {
	return len(r.Values) == 0
}

// RollingVolatility computes the population standard deviation of each
// column over a trailing window. Each value is dated by the last row of its
// window.
func RollingVolatility(returns ReturnMatrix, window int) VolatilityResult {
	if window <= 0 {
		window = formulas.DefaultVolatilityWindow
	}
	if returns.Empty() || window < 2 || returns.Rows() < window {
		return VolatilityResult{Window: window}
	}

	cols := returns.Cols()
	perColumn := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		perColumn[j] = formulas.RollingStdDev(returns.Column(j), window)
	}

	n := returns.Rows() - window + 1
	result := VolatilityResult{
		Window:  window,
		Dates:   append([]time.Time(nil), returns.Dates[window-1:]...),
		Tickers: append([]domain.TickerSymbol(nil), returns.Tickers...),
		Values:  make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = perColumn[j][i]
		}
		result.Values[i] = row
	}
	return result
}
