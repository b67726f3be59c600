/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the server and CLI commands for access to services.
 */
package di

import (
	"golang.org/x/time/rate"

	"github.com/aristath/pfa/internal/config"
	"github.com/aristath/pfa/internal/database"
	"github.com/aristath/pfa/internal/domain"
	"github.com/aristath/pfa/internal/modules/analysis"
	"github.com/aristath/pfa/internal/modules/fundamentals"
	"github.com/aristath/pfa/internal/modules/pricecache"
	"github.com/aristath/pfa/internal/modules/tickers"
	"github.com/aristath/pfa/internal/reliability"
	"github.com/aristath/pfa/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Database: the price cache (sqlite, cache profile)
 * - Clients: the Yahoo price source behind a shared rate limiter
 * - Services: ticker loading, return building, factor and risk analysis,
 *   financial statements
 * - Reliability: optional S3 backups
 * - Scheduler: cron-driven background jobs
 */
type Container struct {
	Config *config.Config

	// Database
	CacheDB *database.DB

	// Clients
	Limiter     *rate.Limiter
	PriceSource domain.PriceSource

	// Services
	Cache    *pricecache.Store
	Tickers  *tickers.Loader
	Builder  *analysis.Builder
	Analysis *analysis.Service

	// Financial statements always come from go-yfinance
	Fundamentals *fundamentals.Service

	// Reliability (Backup is nil when no bucket is configured)
	Backup *reliability.BackupService

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds references to all registered jobs for manual triggering
type JobInstances struct {
	Prefetch       scheduler.Job
	WALCheckpoints scheduler.Job
	Maintenance    scheduler.Job
	Backup         scheduler.Job // nil when backups are disabled
}
