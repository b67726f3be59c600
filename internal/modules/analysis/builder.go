// Package analysis turns a watch list into aligned log-returns and derives
// factor (PCA) and risk (std/covariance) views from them.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/domain"
)

// fetchStatus is the outcome of making sure one ticker is cached
type fetchStatus int

const (
	statusCached fetchStatus = iota
	statusFetched
	statusUnavailable
)

// Builder assembles ReturnMatrix values from cached price history, fetching
// from the price source only for tickers missing from the cache.
type Builder struct {
	source domain.PriceSource
	cache  domain.PriceCache
	log    zerolog.Logger
}

// NewBuilder creates a return-series builder
func NewBuilder(source domain.PriceSource, cache domain.PriceCache, log zerolog.Logger) *Builder {
	return &Builder{
		source: source,
		cache:  cache,
		log:    log.With().Str("component", "return_builder").Logger(),
	}
}

// Build returns the aligned log-return matrix of tickers at interval,
// restricted to bars on or after start. Failures never escape: tickers that
// cannot be used are skipped and a run with nothing usable yields an empty
// matrix.
func (b *Builder) Build(ctx context.Context, tickers []domain.TickerSymbol, interval domain.Interval, start time.Time) ReturnMatrix {
	log := b.log.With().Str("run_id", uuid.New().String()).Str("interval", string(interval)).Logger()

	if len(tickers) == 0 {
		log.Warn().Msg("No tickers to analyze")
		return ReturnMatrix{}
	}

	columns := make([]closeColumn, 0, len(tickers))
	for _, symbol := range tickers {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msg("Return series build cancelled")
			return ReturnMatrix{}
		}

		series, err := b.load(ctx, log, symbol, interval)
		if err != nil {
			if errors.Is(err, domain.ErrNonNumeric) {
				log.Error().Err(err).Str("ticker", symbol.String()).Msg("Non-numeric price data, aborting run")
				return ReturnMatrix{}
			}
			log.Warn().Err(err).Str("ticker", symbol.String()).Msg("Skipping ticker")
			continue
		}

		series = series.Since(start)
		if series.Empty() {
			log.Warn().Str("ticker", symbol.String()).Time("start", start).Msg("No prices on or after start date, skipping ticker")
			continue
		}
		columns = append(columns, newCloseColumn(series))
	}

	if len(columns) == 0 {
		log.Warn().Msg("No usable price data for any ticker")
		return ReturnMatrix{}
	}

	joinedDates, prices := joinCloses(columns)
	dates, values := logReturnRows(joinedDates, prices)
	if len(values) == 0 {
		log.Warn().Int("joined_dates", len(joinedDates)).Msg("No complete return rows after alignment")
		return ReturnMatrix{}
	}

	symbols := make([]domain.TickerSymbol, len(columns))
	for j, col := range columns {
		symbols[j] = col.symbol
	}

	log.Info().
		Int("tickers", len(symbols)).
		Int("rows", len(values)).
		Time("from", dates[0]).
		Time("to", dates[len(dates)-1]).
		Msg("Built return matrix")

	return ReturnMatrix{Dates: dates, Tickers: symbols, Values: values}
}

// load ensures symbol is cached and reads it back from the cache
func (b *Builder) load(ctx context.Context, log zerolog.Logger, symbol domain.TickerSymbol, interval domain.Interval) (domain.PriceSeries, error) {
	if b.ensureCached(ctx, log, symbol, interval) == statusUnavailable {
		return domain.PriceSeries{}, errSourceUnavailable
	}

	table := b.cache.Read(ctx, symbol.CacheKey(interval))
	if table.Empty() {
		return domain.PriceSeries{}, errNoCachedData
	}
	return domain.SeriesFromTable(symbol, interval, table)
}

// ensureCached fetches and stores symbol unless its table already exists
func (b *Builder) ensureCached(ctx context.Context, log zerolog.Logger, symbol domain.TickerSymbol, interval domain.Interval) fetchStatus {
	name := symbol.CacheKey(interval)
	if b.cache.Exists(ctx, name) {
		log.Debug().Str("ticker", symbol.String()).Str("table", name).Msg("Cache hit")
		return statusCached
	}

	series := b.source.Fetch(ctx, symbol, interval)
	if series.Empty() {
		return statusUnavailable
	}

	if !b.cache.Write(ctx, name, series) {
		// A concurrent writer may have won the race; the table is usable then
		if b.cache.Exists(ctx, name) {
			return statusCached
		}
		return statusUnavailable
	}
	return statusFetched
}

// PrefetchReport summarizes a cache warm-up
type PrefetchReport struct {
	Requested   int      `json:"requested"`
	Cached      int      `json:"cached"`
	Fetched     int      `json:"fetched"`
	Unavailable []string `json:"unavailable"`
}

// Prefetch makes sure every ticker is cached without building returns
func (b *Builder) Prefetch(ctx context.Context, tickers []domain.TickerSymbol, interval domain.Interval) PrefetchReport {
	log := b.log.With().Str("run_id", uuid.New().String()).Str("interval", string(interval)).Logger()
	report := PrefetchReport{Requested: len(tickers), Unavailable: []string{}}

	for _, symbol := range tickers {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msg("Prefetch cancelled")
			break
		}
		switch b.ensureCached(ctx, log, symbol, interval) {
		case statusCached:
			report.Cached++
		case statusFetched:
			report.Fetched++
		default:
			report.Unavailable = append(report.Unavailable, symbol.String())
		}
	}

	log.Info().
		Int("requested", report.Requested).
		Int("cached", report.Cached).
		Int("fetched", report.Fetched).
		Int("unavailable", len(report.Unavailable)).
		Msg("Prefetch completed")

	return report
}

var (
	errSourceUnavailable = errors.New("price source returned no data")
	errNoCachedData      = errors.New("cached table is empty")
)
