package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/database"
)

// walFrameThreshold is the WAL size (in frames) above which the job
// truncates the log instead of only reporting it
const walFrameThreshold = 1000

// CheckWALCheckpointsJob monitors the cache WAL and truncates it when large
type CheckWALCheckpointsJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewCheckWALCheckpointsJob creates a new CheckWALCheckpointsJob
func NewCheckWALCheckpointsJob(db *database.DB, log zerolog.Logger) *CheckWALCheckpointsJob {
	return &CheckWALCheckpointsJob{
		db:  db,
		log: log.With().Str("job", "check_wal_checkpoints").Logger(),
	}
}

// Name returns the job name
func (j *CheckWALCheckpointsJob) Name() string {
	return "check_wal_checkpoints"
}

// Run executes the check WAL checkpoints job
func (j *CheckWALCheckpointsJob) Run() error {
	if j.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	var busy, log, checkpointed int
	err := j.db.QueryRowContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &log, &checkpointed)
	if err != nil {
		return fmt.Errorf("failed to check WAL checkpoint of %s: %w", j.db.Name(), err)
	}

	if log > walFrameThreshold {
		j.log.Warn().
			Str("database", j.db.Name()).
			Int("wal_frames", log).
			Int("checkpointed", checkpointed).
			Msg("WAL file is large, truncating")
		return j.db.WALCheckpoint(ctx, "TRUNCATE")
	}

	j.log.Debug().
		Str("database", j.db.Name()).
		Int("wal_frames", log).
		Msg("WAL checkpoint status OK")
	return nil
}
