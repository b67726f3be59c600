package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/pfa/internal/version"
)

// HealthResponse is returned by /health
type HealthResponse struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:        "healthy",
		Service:       "pfa",
		Version:       version.Version,
		Database:      "ok",
		UptimeSeconds: int64(time.Since(s.startupTime).Seconds()),
	}
	response.CPUPercent, response.MemoryPercent = s.systemHandlers.getSystemStats()

	status := http.StatusOK
	if s.cacheDB == nil {
		response.Status = "unhealthy"
		response.Database = "not configured"
		status = http.StatusServiceUnavailable
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.cacheDB.QuickCheck(ctx); err != nil {
			s.log.Error().Err(err).Msg("Cache database health check failed")
			response.Status = "unhealthy"
			response.Database = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, status, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
