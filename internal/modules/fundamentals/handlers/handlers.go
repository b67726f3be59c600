// Package handlers provides HTTP handlers for financial statements.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/domain"
)

// FundamentalsService looks up financial statements per ticker
type FundamentalsService interface {
	Get(ctx context.Context, symbol, freq string) (domain.Fundamentals, error)
}

// Handler handles fundamentals HTTP requests
type Handler struct {
	service FundamentalsService
	log     zerolog.Logger
}

// NewHandler creates a new fundamentals handler
func NewHandler(service FundamentalsService, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "fundamentals").Logger(),
	}
}

// HandleGetFundamentals handles GET /api/fundamentals/{symbol}?freq=quarterly|annual
func (h *Handler) HandleGetFundamentals(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Get(r.Context(), chi.URLParam(r, "symbol"), r.URL.Query().Get("freq"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	empty := result.Empty()
	var data interface{} = result
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
