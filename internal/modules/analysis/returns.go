package analysis

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/pfa/internal/domain"
	"github.com/aristath/pfa/pkg/formulas"
)

// ReturnMatrix holds aligned log-returns: one row per date, one column per
// ticker in watch-list order. Every cell is finite.
type ReturnMatrix struct {
	Dates   []time.Time           `json:"dates"`
	Tickers []domain.TickerSymbol `json:"tickers"`
	Values  [][]float64           `json:"values"`
}

// Empty reports whether the matrix has no usable rows or columns
func (m ReturnMatrix) Empty() bool {
	return len(m.Values) == 0 || len(m.Tickers) == 0
}

// Rows returns the number of dates
func (m ReturnMatrix) Rows() int {
	return len(m.Values)
}

// Cols returns the number of tickers
func (m ReturnMatrix) Cols() int {
	return len(m.Tickers)
}

// Column returns a copy of the returns of column j
func (m ReturnMatrix) Column(j int) []float64 {
	col := make([]float64, len(m.Values))
	for i, row := range m.Values {
		col[i] = row[j]
	}
	return col
}

// Dense returns the matrix as a rows × cols gonum matrix
func (m ReturnMatrix) Dense() *mat.Dense {
	dense := mat.NewDense(m.Rows(), m.Cols(), nil)
	for i, row := range m.Values {
		dense.SetRow(i, row)
	}
	return dense
}

// closeColumn is one ticker's close prices keyed by bar date
type closeColumn struct {
	symbol domain.TickerSymbol
	dates  []time.Time
	closes map[int64]float64
}

func newCloseColumn(series domain.PriceSeries) closeColumn {
	col := closeColumn{
		symbol: series.Symbol,
		dates:  make([]time.Time, 0, series.Len()),
		closes: make(map[int64]float64, series.Len()),
	}
	for _, bar := range series.Bars {
		key := bar.Date.Unix()
		if _, seen := col.closes[key]; !seen {
			col.dates = append(col.dates, bar.Date)
		}
		col.closes[key] = bar.Close
	}
	return col
}

// intersectDates returns the dates present in every column, ascending
func intersectDates(columns []closeColumn) []time.Time {
	if len(columns) == 0 {
		return nil
	}

	shared := make([]time.Time, 0, len(columns[0].dates))
	for _, date := range columns[0].dates {
		key := date.Unix()
		inAll := true
		for _, col := range columns[1:] {
			if _, ok := col.closes[key]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			shared = append(shared, date)
		}
	}

	sort.Slice(shared, func(i, j int) bool { return shared[i].Before(shared[j]) })
	return shared
}

// joinCloses inner-joins the columns on date and returns the price frame
func joinCloses(columns []closeColumn) ([]time.Time, [][]float64) {
	dates := intersectDates(columns)
	prices := make([][]float64, len(dates))
	for i, date := range dates {
		key := date.Unix()
		row := make([]float64, len(columns))
		for j, col := range columns {
			row[j] = col.closes[key]
		}
		prices[i] = row
	}
	return dates, prices
}

// logReturnRows turns a joined price frame into log-returns. The first row
// has no predecessor and is dropped, as is every row with a non-finite cell.
func logReturnRows(dates []time.Time, prices [][]float64) ([]time.Time, [][]float64) {
	if len(prices) < 2 {
		return nil, nil
	}
	cols := len(prices[0])

	perColumn := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		series := make([]float64, len(prices))
		for i := range prices {
			series[i] = prices[i][j]
		}
		perColumn[j] = formulas.LogReturns(series)
	}

	outDates := make([]time.Time, 0, len(prices)-1)
	outRows := make([][]float64, 0, len(prices)-1)
	for i := 0; i < len(prices)-1; i++ {
		row := make([]float64, cols)
		finite := true
		for j := 0; j < cols; j++ {
			row[j] = perColumn[j][i]
			if !formulas.IsFinite(row[j]) {
				finite = false
				break
			}
		}
		if finite {
			outDates = append(outDates, dates[i+1])
			outRows = append(outRows, row)
		}
	}
	return outDates, outRows
}
