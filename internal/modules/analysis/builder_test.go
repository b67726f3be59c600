package analysis

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pfa/internal/domain"
	testingpkg "github.com/aristath/pfa/internal/testing"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func newTestBuilder(series map[string]domain.PriceSeries) (*Builder, *testingpkg.MockPriceSource, *testingpkg.MemoryCache, *testingpkg.CountingCache) {
	source := testingpkg.NewMockPriceSource(series)
	memory := testingpkg.NewMemoryCache()
	cache := testingpkg.NewCountingCache(memory)
	return NewBuilder(source, cache, testLogger()), source, memory, cache
}

func symbols(names ...string) []domain.TickerSymbol {
	out := make([]domain.TickerSymbol, len(names))
	for i, n := range names {
		out[i] = domain.NewTickerSymbol(n)
	}
	return out
}

func TestBuilder_TwoTickerScenario(t *testing.T) {
	builder, _, _, _ := newTestBuilder(map[string]domain.PriceSeries{
		"AAA": testingpkg.NewPriceSeries("AAA", 10, 11, 9),
		"BBB": testingpkg.NewPriceSeries("BBB", 20, 19, 21),
	})

	m := builder.Build(context.Background(), symbols("AAA", "BBB"), domain.IntervalDaily, testingpkg.FixtureStart)

	require.Equal(t, 2, m.Rows())
	assert.Equal(t, symbols("AAA", "BBB"), m.Tickers)
	assert.Equal(t, []time.Time{testingpkg.Day(1), testingpkg.Day(2)}, m.Dates)
	assert.InDelta(t, math.Log(11.0/10.0), m.Values[0][0], 1e-12)
	assert.InDelta(t, math.Log(19.0/20.0), m.Values[0][1], 1e-12)
	assert.InDelta(t, math.Log(9.0/11.0), m.Values[1][0], 1e-12)
	assert.InDelta(t, math.Log(21.0/19.0), m.Values[1][1], 1e-12)
}

func TestBuilder_InnerJoinOnSharedDates(t *testing.T) {
	builder, _, _, _ := newTestBuilder(testingpkg.NewWatchlistSeries())

	m := builder.Build(context.Background(), symbols("CCC", "AAA", "BBB"), domain.IntervalDaily, testingpkg.FixtureStart)

	// CCC starts a day later, so 6 shared dates give 5 return rows
	assert.Equal(t, 5, m.Rows())
	assert.LessOrEqual(t, m.Rows(), 6-1)
	assert.Equal(t, symbols("CCC", "AAA", "BBB"), m.Tickers)
	assert.Equal(t, testingpkg.Day(2), m.Dates[0])
	for _, row := range m.Values {
		assert.Len(t, row, 3)
	}
}

func TestBuilder_StartDateCutoff(t *testing.T) {
	builder, _, _, _ := newTestBuilder(testingpkg.NewWatchlistSeries())

	m := builder.Build(context.Background(), symbols("AAA", "BBB"), domain.IntervalDaily, testingpkg.Day(3))

	require.Equal(t, 3, m.Rows())
	assert.Equal(t, testingpkg.Day(4), m.Dates[0])
	assert.InDelta(t, math.Log(12.0/10.0), m.Values[0][0], 1e-12)
}

func TestBuilder_DropsNonFiniteRows(t *testing.T) {
	builder, _, _, _ := newTestBuilder(map[string]domain.PriceSeries{
		"AAA": testingpkg.NewPriceSeries("AAA", 10, 11, math.NaN(), 12, 13),
		"BBB": testingpkg.NewPriceSeries("BBB", 20, 21, 22, 0, 24),
	})

	m := builder.Build(context.Background(), symbols("AAA", "BBB"), domain.IntervalDaily, testingpkg.FixtureStart)

	require.Equal(t, 1, m.Rows())
	assert.Equal(t, testingpkg.Day(1), m.Dates[0])
	for _, row := range m.Values {
		for _, v := range row {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestBuilder_EmptyInputs(t *testing.T) {
	builder, source, _, _ := newTestBuilder(testingpkg.NewWatchlistSeries())
	ctx := context.Background()

	assert.True(t, builder.Build(ctx, nil, domain.IntervalDaily, testingpkg.FixtureStart).Empty())
	assert.True(t, builder.Build(ctx, symbols("NOPE"), domain.IntervalDaily, testingpkg.FixtureStart).Empty())
	assert.True(t, builder.Build(ctx, symbols("AAA"), domain.IntervalDaily, testingpkg.Day(30)).Empty())
	assert.Equal(t, 1, source.Calls("NOPE"))
}

func TestBuilder_SkipsUnavailableTicker(t *testing.T) {
	builder, _, memory, _ := newTestBuilder(testingpkg.NewWatchlistSeries())

	m := builder.Build(context.Background(), symbols("AAA", "GONE", "BBB"), domain.IntervalDaily, testingpkg.FixtureStart)

	assert.Equal(t, symbols("AAA", "BBB"), m.Tickers)
	assert.False(t, memory.Exists(context.Background(), "GONE_1d"))
}

func TestBuilder_SkipsTableWithoutDateColumn(t *testing.T) {
	builder, source, memory, _ := newTestBuilder(testingpkg.NewWatchlistSeries())
	memory.Put("NODATE_1d", domain.Table{
		Columns: []string{"Close"},
		Rows:    [][]any{{1.0}, {2.0}, {3.0}},
	})
	ctx := context.Background()

	m := builder.Build(ctx, symbols("AAA", "NODATE", "BBB"), domain.IntervalDaily, testingpkg.FixtureStart)
	assert.Equal(t, symbols("AAA", "BBB"), m.Tickers)
	assert.Equal(t, 0, source.Calls("NODATE"))

	assert.True(t, builder.Build(ctx, symbols("NODATE"), domain.IntervalDaily, testingpkg.FixtureStart).Empty())
}

func TestBuilder_NonNumericCloseEmptiesRun(t *testing.T) {
	builder, _, memory, _ := newTestBuilder(testingpkg.NewWatchlistSeries())
	memory.Put("TEXT_1d", domain.Table{
		Columns: []string{"Date", "Close"},
		Rows: [][]any{
			{"2024-01-01 00:00:00", "n/a"},
			{"2024-01-02 00:00:00", "n/a"},
		},
	})

	m := builder.Build(context.Background(), symbols("AAA", "TEXT", "BBB"), domain.IntervalDaily, testingpkg.FixtureStart)
	assert.True(t, m.Empty())
}

func TestBuilder_CachedRunIsIdenticalWithoutRefetch(t *testing.T) {
	builder, source, _, cache := newTestBuilder(testingpkg.NewWatchlistSeries())
	ctx := context.Background()
	tickers := symbols("AAA", "BBB", "CCC")

	first := builder.Build(ctx, tickers, domain.IntervalDaily, testingpkg.FixtureStart)
	require.False(t, first.Empty())
	assert.Equal(t, 3, source.TotalCalls())

	second := builder.Build(ctx, tickers, domain.IntervalDaily, testingpkg.FixtureStart)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, source.TotalCalls(), "cached tickers must not be fetched again")

	for _, name := range []string{"AAA_1d", "BBB_1d", "CCC_1d"} {
		assert.Equal(t, 1, cache.Writes(name))
		assert.Equal(t, 2, cache.Reads(name), "one read-back per run")
	}
}

func TestBuilder_CancelledContext(t *testing.T) {
	builder, source, _, _ := newTestBuilder(testingpkg.NewWatchlistSeries())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, builder.Build(ctx, symbols("AAA", "BBB"), domain.IntervalDaily, testingpkg.FixtureStart).Empty())
	assert.Equal(t, 0, source.TotalCalls())
}

func TestBuilder_Prefetch(t *testing.T) {
	builder, source, memory, _ := newTestBuilder(testingpkg.NewWatchlistSeries())
	ctx := context.Background()
	tickers := symbols("AAA", "BBB", "MISSING")

	report := builder.Prefetch(ctx, tickers, domain.IntervalWeekly)
	assert.Equal(t, PrefetchReport{Requested: 3, Fetched: 2, Unavailable: []string{"MISSING"}}, report)
	assert.True(t, memory.Exists(ctx, "AAA_1wk"))

	report = builder.Prefetch(ctx, tickers, domain.IntervalWeekly)
	assert.Equal(t, 2, report.Cached)
	assert.Equal(t, 0, report.Fetched)
	assert.Equal(t, 1, source.Calls("AAA"))
	assert.Equal(t, 2, source.Calls("MISSING"))
}
