package testing

import (
	"context"
	"sync"

	"github.com/aristath/pfa/internal/domain"
)

// MockPriceSource is an in-memory PriceSource that records every fetch
type MockPriceSource struct {
	mu     sync.Mutex
	series map[domain.TickerSymbol]domain.PriceSeries
	calls  map[domain.TickerSymbol]int
}

// NewMockPriceSource creates a mock source serving the given series by symbol
func NewMockPriceSource(series map[string]domain.PriceSeries) *MockPriceSource {
	m := &MockPriceSource{
		series: make(map[domain.TickerSymbol]domain.PriceSeries),
		calls:  make(map[domain.TickerSymbol]int),
	}
	for symbol, s := range series {
		m.series[domain.NewTickerSymbol(symbol)] = s
	}
	return m
}

// SetSeries replaces the series served for symbol
func (m *MockPriceSource) SetSeries(symbol string, series domain.PriceSeries) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[domain.NewTickerSymbol(symbol)] = series
}

// Fetch returns the configured series, or an empty series for unknown symbols
func (m *MockPriceSource) Fetch(ctx context.Context, symbol domain.TickerSymbol, interval domain.Interval) domain.PriceSeries {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[symbol]++
	s, ok := m.series[symbol]
	if !ok {
		return domain.PriceSeries{Symbol: symbol, Interval: interval}
	}
	s.Interval = interval
	return s
}

// Calls returns how many times symbol was fetched
func (m *MockPriceSource) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[domain.NewTickerSymbol(symbol)]
}

// TotalCalls returns the number of fetches across all symbols
func (m *MockPriceSource) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// CountingCache wraps a PriceCache and counts calls per operation
type CountingCache struct {
	domain.PriceCache

	mu     sync.Mutex
	reads  map[string]int
	writes map[string]int
}

// NewCountingCache wraps inner
func NewCountingCache(inner domain.PriceCache) *CountingCache {
	return &CountingCache{
		PriceCache: inner,
		reads:      make(map[string]int),
		writes:     make(map[string]int),
	}
}

// Read delegates and counts
func (c *CountingCache) Read(ctx context.Context, name string) domain.Table {
	c.mu.Lock()
	c.reads[name]++
	c.mu.Unlock()
	return c.PriceCache.Read(ctx, name)
}

// Write delegates and counts
func (c *CountingCache) Write(ctx context.Context, name string, series domain.PriceSeries) bool {
	c.mu.Lock()
	c.writes[name]++
	c.mu.Unlock()
	return c.PriceCache.Write(ctx, name, series)
}

// Reads returns the number of reads of name
func (c *CountingCache) Reads(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads[name]
}

// Writes returns the number of write attempts for name
func (c *CountingCache) Writes(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes[name]
}

// MemoryCache is a map-backed PriceCache with write-once semantics
type MemoryCache struct {
	mu     sync.Mutex
	tables map[string]domain.Table
}

// NewMemoryCache creates an empty memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{tables: make(map[string]domain.Table)}
}

// Put stores a raw table, replacing any existing one
func (c *MemoryCache) Put(name string, table domain.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[name] = table
}

// ListTables returns the cached names (unsorted)
func (c *MemoryCache) ListTables(ctx context.Context) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	return names
}

// Exists reports whether name is cached
func (c *MemoryCache) Exists(ctx context.Context, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tables[name]
	return ok
}

// Write stores series as a table unless name already exists
func (c *MemoryCache) Write(ctx context.Context, name string, series domain.PriceSeries) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[name]; ok {
		return false
	}
	table := domain.Table{Columns: []string{"Date", "Open", "High", "Low", "Close", "Volume"}}
	for _, bar := range series.Bars {
		table.Rows = append(table.Rows, []any{
			bar.Date.Format("2006-01-02 15:04:05"), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		})
	}
	c.tables[name] = table
	return true
}

// Read returns the table, or an empty table
func (c *MemoryCache) Read(ctx context.Context, name string) domain.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tables[name]
}

// MockFundamentalsSource serves fixed statement periods by symbol
type MockFundamentalsSource struct {
	mu      sync.Mutex
	periods map[domain.TickerSymbol][]domain.FundamentalPeriod

	// Err, when set, is returned by every call
	Err error
}

// NewMockFundamentalsSource creates an empty mock source
func NewMockFundamentalsSource() *MockFundamentalsSource {
	return &MockFundamentalsSource{periods: make(map[domain.TickerSymbol][]domain.FundamentalPeriod)}
}

// Set replaces the periods served for symbol
func (m *MockFundamentalsSource) Set(symbol string, periods []domain.FundamentalPeriod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[domain.NewTickerSymbol(symbol)] = periods
}

// Fundamentals returns the configured periods, or no periods for unknown symbols
func (m *MockFundamentalsSource) Fundamentals(ctx context.Context, symbol domain.TickerSymbol, freq domain.FundamentalFrequency) (domain.Fundamentals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := domain.Fundamentals{Symbol: symbol, Frequency: freq}
	if m.Err != nil {
		return result, m.Err
	}
	result.Periods = m.periods[symbol]
	return result, nil
}
