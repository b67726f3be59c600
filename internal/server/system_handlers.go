package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/pfa/internal/database"
	"github.com/aristath/pfa/internal/scheduler"
)

// JobRunner exposes registered background jobs
type JobRunner interface {
	Jobs() []scheduler.JobInfo
	RunNow(name string) error
}

// SystemHandlers handles system monitoring and operations endpoints
type SystemHandlers struct {
	log     zerolog.Logger
	dataDir string
	cacheDB *database.DB
	jobs    JobRunner
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, dataDir string, cacheDB *database.DB, jobs JobRunner) *SystemHandlers {
	return &SystemHandlers{
		log:     log.With().Str("component", "system_handlers").Logger(),
		dataDir: dataDir,
		cacheDB: cacheDB,
		jobs:    jobs,
	}
}

// DatabaseStatsResponse describes the cache database
type DatabaseStatsResponse struct {
	Name        string          `json:"name"`
	Path        string          `json:"path"`
	Profile     string          `json:"profile"`
	Stats       *database.Stats `json:"stats"`
	SizeMB      float64         `json:"size_mb"`
	LastChecked string          `json:"last_checked"`
}

// DiskUsageResponse describes space used under the data directory
type DiskUsageResponse struct {
	DataDirMB float64 `json:"data_dir_mb"`
}

// JobsStatusResponse lists registered background jobs
type JobsStatusResponse struct {
	Jobs []scheduler.JobInfo `json:"jobs"`
}

// HandleDatabaseStats returns cache database statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting database stats")

	if h.cacheDB == nil {
		http.Error(w, "Cache database not configured", http.StatusServiceUnavailable)
		return
	}

	stats, err := h.cacheDB.GetStats(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		http.Error(w, "Failed to get database stats", http.StatusInternalServerError)
		return
	}

	response := DatabaseStatsResponse{
		Name:        h.cacheDB.Name(),
		Path:        h.cacheDB.Path(),
		Profile:     string(h.cacheDB.Profile()),
		Stats:       stats,
		SizeMB:      float64(stats.SizeBytes+stats.WALSizeBytes) / 1024 / 1024,
		LastChecked: time.Now().Format(time.RFC3339),
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleDiskUsage returns disk usage statistics
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting disk usage")
	h.writeJSON(w, http.StatusOK, DiskUsageResponse{DataDirMB: h.getDirSize(h.dataDir)})
}

// HandleJobsStatus lists background jobs and their next run
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	response := JobsStatusResponse{Jobs: []scheduler.JobInfo{}}
	if h.jobs != nil {
		response.Jobs = h.jobs.Jobs()
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleRunJob runs a registered job immediately
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleRunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.jobs == nil {
		http.Error(w, "Scheduler not running", http.StatusServiceUnavailable)
		return
	}

	if err := h.jobs.RunNow(name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			http.Error(w, "Job not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":  "error",
			"job":     name,
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"job":    name,
	})
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	if dirPath == "" {
		return 0
	}

	var totalSize int64
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats returns CPU and RAM usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	// 100ms keeps /health responsive
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
