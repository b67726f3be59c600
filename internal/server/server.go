// Package server provides the HTTP server and routing for pfa.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/database"
	analysishandlers "github.com/aristath/pfa/internal/modules/analysis/handlers"
	fundamentalshandlers "github.com/aristath/pfa/internal/modules/fundamentals/handlers"
)

// Config holds server configuration
type Config struct {
	Log      zerolog.Logger
	CacheDB  *database.DB
	Analysis analysishandlers.AnalysisService
	Cache    analysishandlers.CacheManager

	// Fundamentals is optional; its routes are only mounted when set
	Fundamentals fundamentalshandlers.FundamentalsService

	Jobs    JobRunner // optional
	DataDir string
	Port    int
	DevMode bool
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cacheDB        *database.DB
	port           int
	startupTime    time.Time
	analysis       *analysishandlers.Handler
	fundamentals   *fundamentalshandlers.Handler
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cacheDB:        cfg.CacheDB,
		port:           cfg.Port,
		startupTime:    time.Now(),
		analysis:       analysishandlers.NewHandler(cfg.Analysis, cfg.Cache, cfg.Log),
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.DataDir, cfg.CacheDB, cfg.Jobs),
	}

	if cfg.Fundamentals != nil {
		s.fundamentals = fundamentalshandlers.NewHandler(cfg.Fundamentals, cfg.Log)
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // cold-cache analyses download every ticker
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(110 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		s.analysis.RegisterRoutes(r)
		if s.fundamentals != nil {
			s.fundamentals.RegisterRoutes(r)
		}

		r.Route("/system", func(r chi.Router) {
			r.Get("/database", s.systemHandlers.HandleDatabaseStats)
			r.Get("/disk", s.systemHandlers.HandleDiskUsage)
			r.Get("/jobs", s.systemHandlers.HandleJobsStatus)
			r.Post("/jobs/{name}", s.systemHandlers.HandleRunJob)
		})
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
