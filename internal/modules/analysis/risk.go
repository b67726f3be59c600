package analysis

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/pfa/internal/domain"
	"github.com/aristath/pfa/pkg/formulas"
)

// RiskResult holds per-ticker dispersion and co-movement of returns
type RiskResult struct {
	Tickers []domain.TickerSymbol `json:"tickers"`
	// StdDev is the sample standard deviation per ticker
	StdDev []float64 `json:"std_dev"`
	// Covariance is the ticker × ticker sample covariance matrix
	Covariance [][]float64 `json:"covariance"`
	// Correlation is derived from Covariance. Pairs involving a constant
	// series have correlation 0 (1 on the diagonal).
	Correlation [][]float64 `json:"correlation"`
}

// Empty reports whether the result is the empty sentinel
func (r RiskResult) Empty() bool {
	return len(r.Tickers) == 0
}

// RiskAnalyzer computes standard deviations and the covariance matrix
type RiskAnalyzer struct {
	log zerolog.Logger
}

// NewRiskAnalyzer creates a risk analyzer
func NewRiskAnalyzer(log zerolog.Logger) *RiskAnalyzer {
	return &RiskAnalyzer{
		log: log.With().Str("component", "risk_analyzer").Logger(),
	}
}

// Analyze returns the sample statistics of returns. Fewer than two rows
// leave the sample estimators undefined and yield the empty sentinel.
func (a *RiskAnalyzer) Analyze(returns ReturnMatrix) RiskResult {
	if returns.Empty() {
		return RiskResult{}
	}
	if returns.Rows() < 2 {
		a.log.Warn().Int("rows", returns.Rows()).Msg("Not enough return rows for sample statistics")
		return RiskResult{}
	}

	cols := returns.Cols()
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, returns.Dense(), nil)

	result := RiskResult{
		Tickers:    append([]domain.TickerSymbol(nil), returns.Tickers...),
		StdDev:     make([]float64, cols),
		Covariance: make([][]float64, cols),
	}
	for i := 0; i < cols; i++ {
		result.StdDev[i] = formulas.StdDev(returns.Column(i))
		result.Covariance[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			result.Covariance[i][j] = cov.At(i, j)
		}
	}
	result.Correlation = Correlation(result.Covariance)

	a.log.Debug().Int("tickers", cols).Int("rows", returns.Rows()).Msg("Risk metrics computed")
	return result
}

// Correlation converts a covariance matrix into a correlation matrix
func Correlation(cov [][]float64) [][]float64 {
	n := len(cov)
	corr := make([][]float64, n)
	for i := 0; i < n; i++ {
		corr[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				corr[i][j] = 1
				continue
			}
			denom := math.Sqrt(cov[i][i] * cov[j][j])
			if denom > 0 {
				corr[i][j] = math.Max(-1, math.Min(1, cov[i][j]/denom))
			}
		}
	}
	return corr
}
