package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/aristath/pfa/internal/database"
)

// Disk space thresholds for the data directory
const (
	criticalFreeGB = 0.5
	lowFreeGB      = 5.0
)

// DailyMaintenanceJob checks cache integrity, truncates the WAL and watches
// free disk space.
type DailyMaintenanceJob struct {
	db      *database.DB
	dataDir string
	log     zerolog.Logger
}

// NewDailyMaintenanceJob creates a new daily maintenance job
func NewDailyMaintenanceJob(db *database.DB, dataDir string, log zerolog.Logger) *DailyMaintenanceJob {
	return &DailyMaintenanceJob{
		db:      db,
		dataDir: dataDir,
		log:     log.With().Str("job", "daily_maintenance").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *DailyMaintenanceJob) Name() string {
	return "daily_maintenance"
}

// Run executes the daily maintenance job
func (j *DailyMaintenanceJob) Run() error {
	j.log.Info().Msg("Starting daily maintenance")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := j.db.HealthCheck(ctx); err != nil {
		j.log.Error().Err(err).Str("database", j.db.Name()).Msg("Integrity check failed")
		return fmt.Errorf("integrity check of %s: %w", j.db.Name(), err)
	}

	if err := j.db.WALCheckpoint(ctx, "TRUNCATE"); err != nil {
		// Not critical; the next run retries
		j.log.Warn().Err(err).Str("database", j.db.Name()).Msg("WAL checkpoint failed")
	}

	if err := j.checkDiskSpace(); err != nil {
		return err
	}

	if stats, err := j.db.GetStats(ctx); err == nil {
		j.log.Info().
			Str("database", j.db.Name()).
			Int64("size_bytes", stats.SizeBytes).
			Int64("freelist_pages", stats.FreelistCount).
			Msg("Database size")
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Msg("Daily maintenance completed successfully")

	return nil
}

// checkDiskSpace verifies sufficient disk space is available
func (j *DailyMaintenanceJob) checkDiskSpace() error {
	usage, err := disk.Usage(j.dataDir)
	if err != nil {
		return fmt.Errorf("failed to stat filesystem: %w", err)
	}

	availableGB := float64(usage.Free) / 1e9
	j.log.Debug().Float64("available_gb", availableGB).Msg("Disk space check")

	if availableGB < criticalFreeGB {
		j.log.Error().Float64("available_gb", availableGB).Msg("CRITICAL: Insufficient disk space")
		return fmt.Errorf("only %.2f GB free in %s", availableGB, j.dataDir)
	}
	if availableGB < lowFreeGB {
		j.log.Warn().Float64("available_gb", availableGB).Msg("Disk space running low")
	}
	return nil
}

// BackupJob uploads a cache snapshot and rotates old backups
type BackupJob struct {
	service       *BackupService
	retentionDays int
	log           zerolog.Logger
}

// NewBackupJob creates a scheduled backup job
func NewBackupJob(service *BackupService, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		service:       service,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "backup").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *BackupJob) Name() string {
	return "backup"
}

// Run executes the backup job
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if _, err := j.service.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	if _, err := j.service.RotateOldBackups(ctx, j.retentionDays); err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}
	return nil
}
