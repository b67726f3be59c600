package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the analysis, ticker and cache routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Get("/pca", h.HandleGetPCA)
		r.Get("/risk", h.HandleGetRisk)
		r.Get("/returns", h.HandleGetReturns)
		r.Get("/volatility", h.HandleGetVolatility)
	})

	r.Get("/tickers", h.HandleGetTickers)

	r.Route("/cache", func(r chi.Router) {
		r.Get("/tables", h.HandleListTables)
		r.Delete("/tables/{name}", h.HandleDropTable)
		r.Post("/prefetch", h.HandlePrefetch)
	})
}
