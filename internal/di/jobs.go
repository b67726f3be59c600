// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/config"
	"github.com/aristath/pfa/internal/reliability"
	"github.com/aristath/pfa/internal/scheduler"
)

// walCheckpointSchedule runs the WAL size check every 30 minutes
const walCheckpointSchedule = "0 */30 * * * *"

// RegisterJobs creates the scheduler and its jobs. Jobs without a schedule
// stay available for manual runs.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	container.Scheduler = sched
	instances := &JobInstances{}

	// Prefetch
	prefetch := scheduler.NewPrefetchJob(container.Analysis, container.Cache, 0, log)
	if err := schedule(sched, cfg.Schedule.Prefetch, prefetch); err != nil {
		return nil, err
	}
	instances.Prefetch = prefetch

	// WAL checkpoints
	walCheckpoints := scheduler.NewCheckWALCheckpointsJob(container.CacheDB, log)
	if err := sched.AddJob(walCheckpointSchedule, walCheckpoints); err != nil {
		return nil, err
	}
	instances.WALCheckpoints = walCheckpoints

	// Daily maintenance
	maintenance := reliability.NewDailyMaintenanceJob(container.CacheDB, cfg.DataDir, log)
	if err := schedule(sched, cfg.Schedule.Maintenance, maintenance); err != nil {
		return nil, err
	}
	instances.Maintenance = maintenance

	// Backup
	if container.Backup != nil {
		backup := reliability.NewBackupJob(container.Backup, cfg.Backup.RetentionDays, log)
		if err := schedule(sched, cfg.Schedule.Backup, backup); err != nil {
			return nil, err
		}
		instances.Backup = backup
	}

	log.Info().Int("jobs", len(sched.Jobs())).Msg("Jobs registered")

	return instances, nil
}

func schedule(sched *scheduler.Scheduler, expr string, job scheduler.Job) error {
	if expr == "" {
		sched.Register(job)
		return nil
	}
	return sched.AddJob(expr, job)
}
