// Package di provides dependency injection for services.
package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/clients/yahoo"
	"github.com/aristath/pfa/internal/config"
	"github.com/aristath/pfa/internal/modules/analysis"
	"github.com/aristath/pfa/internal/modules/fundamentals"
	"github.com/aristath/pfa/internal/modules/pricecache"
	"github.com/aristath/pfa/internal/modules/tickers"
	"github.com/aristath/pfa/internal/reliability"
)

// InitializeServices creates clients and services on top of the databases
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.CacheDB == nil {
		return fmt.Errorf("container has no cache database")
	}

	store, err := pricecache.NewStore(container.CacheDB, log)
	if err != nil {
		return fmt.Errorf("failed to create price cache: %w", err)
	}
	container.Cache = store

	// One limiter shared by every fetch
	container.Limiter = yahoo.NewLimiter(cfg.FetchRate)

	native := yahoo.NewNativeClient(container.Limiter, log)
	switch cfg.PriceSource {
	case config.SourceChart:
		container.PriceSource = yahoo.NewChartClient(cfg.ChartBaseURL, container.Limiter, log)
	default:
		container.PriceSource = native
	}
	log.Info().
		Str("price_source", cfg.PriceSource).
		Float64("fetch_rate", cfg.FetchRate).
		Msg("Price source configured")

	container.Tickers = tickers.NewLoader(cfg.TickerFile, log)
	container.Builder = analysis.NewBuilder(container.PriceSource, container.Cache, log)
	container.Analysis = analysis.NewService(container.Tickers, container.Builder, analysis.Settings{
		Interval:  domainInterval(cfg.Interval),
		StartDate: cfg.StartDate,
	}, log)

	container.Fundamentals = fundamentals.NewService(native, log)

	if cfg.Backup.Enabled() {
		client, err := reliability.NewS3Client(ctx, reliability.S3Config{
			Endpoint:        cfg.Backup.Endpoint,
			Region:          cfg.Backup.Region,
			Bucket:          cfg.Backup.Bucket,
			AccessKeyID:     cfg.Backup.AccessKeyID,
			SecretAccessKey: cfg.Backup.SecretAccessKey,
			PathStyle:       cfg.Backup.PathStyle,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create backup storage client: %w", err)
		}
		container.Backup = reliability.NewBackupService(container.CacheDB, client, cfg.DataDir, log)
	}

	return nil
}
