package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/modules/analysis"
)

// Prefetcher warms the price cache for the watch list
type Prefetcher interface {
	Prefetch(ctx context.Context) analysis.PrefetchReport
}

// Checkpointer folds the cache WAL into the database file
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// PrefetchJob downloads missing price history ahead of analysis requests
type PrefetchJob struct {
	prefetcher   Prefetcher
	checkpointer Checkpointer
	timeout      time.Duration
	log          zerolog.Logger
}

// NewPrefetchJob creates a prefetch job. A zero timeout means 30 minutes.
func NewPrefetchJob(prefetcher Prefetcher, checkpointer Checkpointer, timeout time.Duration, log zerolog.Logger) *PrefetchJob {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &PrefetchJob{
		prefetcher:   prefetcher,
		checkpointer: checkpointer,
		timeout:      timeout,
		log:          log.With().Str("job", "prefetch").Logger(),
	}
}

// Name returns the job name
func (j *PrefetchJob) Name() string {
	return "prefetch"
}

// Run executes the prefetch job
func (j *PrefetchJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	report := j.prefetcher.Prefetch(ctx)
	if len(report.Unavailable) > 0 {
		j.log.Warn().Strs("tickers", report.Unavailable).Msg("Some tickers could not be fetched")
	}

	if report.Fetched > 0 && j.checkpointer != nil {
		if err := j.checkpointer.Checkpoint(ctx); err != nil {
			return fmt.Errorf("checkpoint after prefetch: %w", err)
		}
	}

	if report.Requested > 0 && report.Cached+report.Fetched == 0 {
		return fmt.Errorf("none of %d tickers could be fetched", report.Requested)
	}
	return nil
}
