package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the fundamentals routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/fundamentals/{symbol}", h.HandleGetFundamentals)
}
