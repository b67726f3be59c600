package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/pfa/internal/server"
)

var servePort int

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and background jobs",
	Long: `Starts the JSON API and the job scheduler.

Endpoints:
  GET    /health
  GET    /api/analysis/pca
  GET    /api/analysis/risk
  GET    /api/analysis/returns
  GET    /api/analysis/volatility?window=20
  GET    /api/tickers
  GET    /api/cache/tables
  POST   /api/cache/prefetch
  DELETE /api/cache/tables/{name}
  GET    /api/system/jobs
  POST   /api/system/jobs/{name}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides PFA_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if servePort > 0 {
		port = servePort
	}

	srv := server.New(server.Config{
		Log:          a.log,
		CacheDB:      a.container.CacheDB,
		Analysis:     a.container.Analysis,
		Cache:        a.container.Cache,
		Fundamentals: a.container.Fundamentals,
		Jobs:         a.container.Scheduler,
		DataDir:      a.cfg.DataDir,
		Port:         port,
		DevMode:      a.cfg.DevMode,
	})

	a.container.Scheduler.Start()
	defer a.container.Scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	a.log.Info().
		Int("port", port).
		Str("tickers", a.cfg.TickerFile).
		Str("interval", a.cfg.Interval).
		Msg("pfa started")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	a.log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info().Msg("Server stopped")
	return nil
}
