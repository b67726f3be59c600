package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/version"
)

const (
	backupPrefix    = "pfa-backup-"
	backupSuffix    = ".tar.gz"
	backupTimestamp = "2006-01-02-150405"
	metadataFile    = "backup-metadata.json"
)

// Snapshotter writes a consistent copy of a database to a file
type Snapshotter interface {
	Name() string
	VacuumInto(ctx context.Context, dest string) error
}

// BackupService snapshots the cache database and uploads it
type BackupService struct {
	db      Snapshotter
	store   ObjectStore
	dataDir string
	now     func() time.Time
	log     zerolog.Logger
}

// BackupMetadata contains metadata about a backup
type BackupMetadata struct {
	Timestamp  time.Time          `json:"timestamp"`
	Version    string             `json:"version"`
	PfaVersion string             `json:"pfa_version"`
	Databases  []DatabaseMetadata `json:"databases"`
}

// DatabaseMetadata contains metadata about a single database in the backup
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupInfo represents information about a stored backup
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// NewBackupService creates a new backup service staging files under dataDir
func NewBackupService(db Snapshotter, store ObjectStore, dataDir string, log zerolog.Logger) *BackupService {
	return &BackupService{
		db:      db,
		store:   store,
		dataDir: dataDir,
		now:     time.Now,
		log:     log.With().Str("service", "backup").Logger(),
	}
}

// CreateAndUploadBackup creates a backup archive and uploads it
func (s *BackupService) CreateAndUploadBackup(ctx context.Context) (*BackupInfo, error) {
	s.log.Info().Msg("Starting backup")
	startTime := time.Now()
	now := s.now().UTC()

	stagingDir, err := os.MkdirTemp(s.dataDir, "backup-staging-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	dbName := s.db.Name()
	dbFile := dbName + ".db"
	dbPath := filepath.Join(stagingDir, dbFile)

	if err := s.db.VacuumInto(ctx, dbPath); err != nil {
		return nil, fmt.Errorf("failed to snapshot %s: %w", dbName, err)
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s snapshot: %w", dbName, err)
	}
	checksum, err := calculateChecksum(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for %s: %w", dbName, err)
	}

	metadata := BackupMetadata{
		Timestamp:  now,
		Version:    "1.0.0",
		PfaVersion: version.Version,
		Databases: []DatabaseMetadata{{
			Name:      dbName,
			Filename:  dbFile,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		}},
	}
	if err := writeMetadata(filepath.Join(stagingDir, metadataFile), metadata); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	archiveName := backupPrefix + now.Format(backupTimestamp) + backupSuffix
	archivePath := filepath.Join(stagingDir, archiveName)
	if err := createArchive(archivePath, stagingDir, []string{dbFile, metadataFile}); err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}

	archiveInfo, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer archiveFile.Close()

	if err := s.store.Upload(ctx, archiveName, archiveFile, archiveInfo.Size()); err != nil {
		return nil, fmt.Errorf("failed to upload backup: %w", err)
	}

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("archive", archiveName).
		Int64("size_bytes", archiveInfo.Size()).
		Msg("Backup completed successfully")

	return &BackupInfo{
		Filename:  archiveName,
		Timestamp: now,
		SizeBytes: archiveInfo.Size(),
	}, nil
}

// ListBackups lists stored backups, newest first
func (s *BackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	objects, err := s.store.List(ctx, backupPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	backups := make([]BackupInfo, 0, len(objects))
	now := s.now()

	for _, obj := range objects {
		// pfa-backup-2026-01-08-143022.tar.gz
		if !strings.HasPrefix(obj.Key, backupPrefix) || !strings.HasSuffix(obj.Key, backupSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(obj.Key, backupPrefix), backupSuffix)

		timestamp, err := time.Parse(backupTimestamp, stamp)
		if err != nil {
			s.log.Warn().Str("filename", obj.Key).Msg("Failed to parse timestamp from filename")
			continue
		}

		backups = append(backups, BackupInfo{
			Filename:  obj.Key,
			Timestamp: timestamp,
			SizeBytes: obj.Size,
			AgeHours:  int64(now.Sub(timestamp).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// minBackupsToKeep survive rotation regardless of age
const minBackupsToKeep = 3

// RotateOldBackups deletes backups older than retentionDays and returns how
// many were removed. Zero retention keeps everything.
func (s *BackupService) RotateOldBackups(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return 0, err
	}
	if len(backups) <= minBackupsToKeep {
		s.log.Debug().Int("count", len(backups)).Msg("Too few backups to rotate")
		return 0, nil
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	deleted := 0
	for _, backup := range backups[minBackupsToKeep:] {
		if !backup.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, backup.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", backup.Filename).Msg("Failed to delete old backup")
			continue
		}
		s.log.Info().Str("filename", backup.Filename).Time("timestamp", backup.Timestamp).Msg("Deleted old backup")
		deleted++
	}

	s.log.Info().
		Int("deleted", deleted).
		Int("remaining", len(backups)-deleted).
		Msg("Backup rotation completed")

	return deleted, nil
}

// calculateChecksum calculates SHA256 checksum of a file
func calculateChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

// writeMetadata writes backup metadata to a JSON file
func writeMetadata(path string, metadata BackupMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

// createArchive creates a tar.gz archive of files from sourceDir
func createArchive(archivePath, sourceDir string, files []string) (err error) {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() {
		if cerr := archiveFile.Close(); err == nil {
			err = cerr
		}
	}()

	gzipWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, name := range files {
		if err := addFileToArchive(tarWriter, filepath.Join(sourceDir, name), name); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzipWriter.Close()
}

// addFileToArchive adds a single file to a tar archive
func addFileToArchive(tarWriter *tar.Writer, filePath, nameInArchive string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tarWriter, file)
	return err
}
