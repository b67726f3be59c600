package analysis

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/pfa/internal/domain"
	"github.com/aristath/pfa/pkg/formulas"
)

// FactorResult is the principal-component decomposition of a return matrix
type FactorResult struct {
	// Components are labelled P1..Pk in descending order of explained variance
	Components []string              `json:"components"`
	Tickers    []domain.TickerSymbol `json:"tickers"`
	// ExplainedVariance is the per-component share of total variance
	ExplainedVariance []float64 `json:"explained_variance"`
	// CumulativeVariance is non-decreasing and ends at exactly 1
	CumulativeVariance []float64 `json:"cumulative_variance"`
	// Loadings is component × ticker
	Loadings [][]float64 `json:"loadings"`
}

// Empty reports whether the result is the empty sentinel
func (r FactorResult) Empty() bool {
	return len(r.Components) == 0
}

// FactorAnalyzer performs PCA on standardized returns
type FactorAnalyzer struct {
	log zerolog.Logger
}

// NewFactorAnalyzer creates a factor analyzer
func NewFactorAnalyzer(log zerolog.Logger) *FactorAnalyzer {
	return &FactorAnalyzer{
		log: log.With().Str("component", "factor_analyzer").Logger(),
	}
}

// Analyze standardizes each column (population scaling) and decomposes the
// result. All components are kept: min(rows, tickers) of them.
func (a *FactorAnalyzer) Analyze(returns ReturnMatrix) FactorResult {
	if returns.Empty() {
		return FactorResult{}
	}
	if returns.Rows() < 2 {
		a.log.Warn().Int("rows", returns.Rows()).Msg("Not enough return rows for PCA")
		return FactorResult{}
	}

	rows, cols := returns.Rows(), returns.Cols()
	standardized := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		standardized.SetCol(j, formulas.Standardize(returns.Column(j)))
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(standardized, nil); !ok {
		a.log.Warn().Int("rows", rows).Int("tickers", cols).Msg("PCA decomposition failed")
		return FactorResult{}
	}

	vars := pc.VarsTo(nil)
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	total := 0.0
	for _, v := range vars {
		total += v
	}
	if total <= 0 || math.IsNaN(total) {
		a.log.Warn().Msg("Returns have no variance, PCA is undefined")
		return FactorResult{}
	}

	k := len(vars)
	result := FactorResult{
		Components:         make([]string, k),
		Tickers:            append([]domain.TickerSymbol(nil), returns.Tickers...),
		ExplainedVariance:  make([]float64, k),
		CumulativeVariance: make([]float64, k),
		Loadings:           make([][]float64, k),
	}

	running := 0.0
	for c := 0; c < k; c++ {
		running += vars[c]
		result.Components[c] = fmt.Sprintf("P%d", c+1)
		result.ExplainedVariance[c] = vars[c] / total
		result.CumulativeVariance[c] = running / total

		loading := make([]float64, cols)
		for j := 0; j < cols; j++ {
			loading[j] = vectors.At(j, c)
		}
		result.Loadings[c] = orientLoading(loading)
	}

	a.log.Debug().
		Int("components", k).
		Float64("p1_explained", result.ExplainedVariance[0]).
		Msg("PCA completed")

	return result
}

// orientLoading fixes the arbitrary sign of an eigenvector so that its
// largest-magnitude entry is positive.
func orientLoading(v []float64) []float64 {
	maxIdx := 0
	for i := range v {
		if math.Abs(v[i]) > math.Abs(v[maxIdx]) {
			maxIdx = i
		}
	}
	if v[maxIdx] < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
	for i := range v {
		if v[i] == 0 {
			v[i] = 0 // normalize negative zero
		}
	}
	return v
}
