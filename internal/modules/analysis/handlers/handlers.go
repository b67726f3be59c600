// Package handlers provides HTTP handlers for the analysis and cache API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/domain"
	"github.com/aristath/pfa/internal/modules/analysis"
	"github.com/aristath/pfa/internal/modules/pricecache"
)

// AnalysisService is the analysis pipeline as seen by the API
type AnalysisService interface {
	PCAnalysis(ctx context.Context) analysis.FactorResult
	RiskAnalysis(ctx context.Context) analysis.RiskResult
	Returns(ctx context.Context) analysis.ReturnMatrix
	Volatility(ctx context.Context, window int) analysis.VolatilityResult
	Tickers() []domain.TickerSymbol
	Prefetch(ctx context.Context) analysis.PrefetchReport
}

// CacheManager exposes cache inspection and manual invalidation
type CacheManager interface {
	Exists(ctx context.Context, name string) bool
	Describe(ctx context.Context) ([]pricecache.TableInfo, error)
	Drop(ctx context.Context, name string) error
	Checkpoint(ctx context.Context) error
}

// Handler handles analysis and cache HTTP requests
type Handler struct {
	service AnalysisService
	cache   CacheManager
	log     zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(service AnalysisService, cache CacheManager, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		cache:   cache,
		log:     log.With().Str("handler", "analysis").Logger(),
	}
}

// HandleGetPCA handles GET /api/analysis/pca
func (h *Handler) HandleGetPCA(w http.ResponseWriter, r *http.Request) {
	result := h.service.PCAnalysis(r.Context())
	h.writeResult(w, result, result.Empty())
}

// HandleGetRisk handles GET /api/analysis/risk
func (h *Handler) HandleGetRisk(w http.ResponseWriter, r *http.Request) {
	result := h.service.RiskAnalysis(r.Context())
	h.writeResult(w, result, result.Empty())
}

// HandleGetReturns handles GET /api/analysis/returns
func (h *Handler) HandleGetReturns(w http.ResponseWriter, r *http.Request) {
	result := h.service.Returns(r.Context())
	h.writeResult(w, result, result.Empty())
}

// HandleGetVolatility handles GET /api/analysis/volatility?window=N
func (h *Handler) HandleGetVolatility(w http.ResponseWriter, r *http.Request) {
	window := 0
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2 {
			http.Error(w, "window must be an integer >= 2", http.StatusBadRequest)
			return
		}
		window = parsed
	}

	result := h.service.Volatility(r.Context(), window)
	h.writeResult(w, result, result.Empty())
}

// HandleGetTickers handles GET /api/tickers
func (h *Handler) HandleGetTickers(w http.ResponseWriter, r *http.Request) {
	tickers := h.service.Tickers()
	h.writeResult(w, map[string]interface{}{
		"tickers": tickers,
		"count":   len(tickers),
	}, len(tickers) == 0)
}

// HandleListTables handles GET /api/cache/tables
func (h *Handler) HandleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.cache.Describe(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to describe cache")
		http.Error(w, "Failed to list cached tables", http.StatusInternalServerError)
		return
	}
	h.writeResult(w, map[string]interface{}{
		"tables": tables,
		"count":  len(tables),
	}, len(tables) == 0)
}

// HandlePrefetch handles POST /api/cache/prefetch
func (h *Handler) HandlePrefetch(w http.ResponseWriter, r *http.Request) {
	report := h.service.Prefetch(r.Context())
	if report.Fetched > 0 {
		if err := h.cache.Checkpoint(r.Context()); err != nil {
			h.log.Warn().Err(err).Msg("WAL checkpoint after prefetch failed")
		}
	}
	h.writeResult(w, report, report.Requested == 0)
}

// HandleDropTable handles DELETE /api/cache/tables/{name}
func (h *Handler) HandleDropTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !h.cache.Exists(r.Context(), name) {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}

	if err := h.cache.Drop(r.Context(), name); err != nil {
		h.log.Error().Err(err).Str("table", name).Msg("Failed to drop cached table")
		http.Error(w, "Failed to drop table", http.StatusInternalServerError)
		return
	}

	h.writeResult(w, map[string]interface{}{"dropped": name}, false)
}

// writeResult wraps data in the response envelope. Empty results are sent as
// null data so clients can render a placeholder.
func (h *Handler) writeResult(w http.ResponseWriter, data interface{}, empty bool) {
	if empty {
		data = nil
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"empty":     empty,
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
