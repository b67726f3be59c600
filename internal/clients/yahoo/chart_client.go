package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/pfa/internal/domain"
)

// DefaultChartBaseURL is the public Yahoo Finance API host
const DefaultChartBaseURL = "https://query1.finance.yahoo.com"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// ChartClient fetches price history from the Yahoo Finance chart API
type ChartClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewChartClient creates a chart API client. An empty baseURL selects
// DefaultChartBaseURL.
func NewChartClient(baseURL string, limiter *rate.Limiter, log zerolog.Logger) *ChartClient {
	if baseURL == "" {
		baseURL = DefaultChartBaseURL
	}
	return &ChartClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: limiter,
		log:     log.With().Str("client", "yahoo-chart").Logger(),
	}
}

// chartResponse is the subset of the chart API payload we read. Price
// slices hold pointers because Yahoo reports missing bars as null.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch returns the full available history of symbol, or an empty series
// on any failure.
func (c *ChartClient) Fetch(ctx context.Context, symbol domain.TickerSymbol, interval domain.Interval) domain.PriceSeries {
	series, err := c.GetHistoricalPrices(ctx, symbol, interval)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", symbol.String()).Str("interval", string(interval)).Msg("Price source unavailable")
		return domain.PriceSeries{Symbol: symbol, Interval: interval}
	}
	return series
}

// GetHistoricalPrices downloads the maximum available history for symbol
func (c *ChartClient) GetHistoricalPrices(ctx context.Context, symbol domain.TickerSymbol, interval domain.Interval) (domain.PriceSeries, error) {
	symbol = domain.NewTickerSymbol(string(symbol))
	series := domain.PriceSeries{Symbol: symbol, Interval: interval}

	if err := wait(ctx, c.limiter); err != nil {
		return series, err
	}

	params := url.Values{}
	params.Add("interval", string(interval))
	params.Add("range", "max")
	reqURL := c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol.String()) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return series, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return series, fmt.Errorf("failed to fetch historical data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return series, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return series, fmt.Errorf("chart API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return series, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return series, fmt.Errorf("chart API error %s: %s", result.Chart.Error.Code, result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return series, fmt.Errorf("no price data returned for %s", symbol)
	}

	chart := result.Chart.Result[0]
	quote := chart.Indicators.Quote[0]
	exchange := time.FixedZone("exchange", chart.Meta.GMTOffset)

	series.Bars = make([]domain.PriceBar, 0, len(chart.Timestamp))
	for i, ts := range chart.Timestamp {
		// A null close stays as NaN so the date still takes part in the join
		series.Bars = append(series.Bars, domain.PriceBar{
			Date:   domain.NormalizeBarDate(time.Unix(ts, 0).In(exchange), interval),
			Open:   value(at(quote.Open, i)),
			High:   value(at(quote.High, i)),
			Low:    value(at(quote.Low, i)),
			Close:  value(at(quote.Close, i)),
			Volume: value(at(quote.Volume, i)),
		})
	}

	c.log.Debug().
		Str("ticker", symbol.String()).
		Str("interval", string(interval)).
		Int("count", len(series.Bars)).
		Msg("Fetched historical prices")

	return series, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

// value maps a null cell to NaN
func value(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ domain.PriceSource = (*ChartClient)(nil)
