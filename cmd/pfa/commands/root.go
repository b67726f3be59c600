// Package commands implements the pfa command-line interface.
package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/pfa/internal/config"
	"github.com/aristath/pfa/internal/di"
	"github.com/aristath/pfa/internal/version"
	"github.com/aristath/pfa/pkg/logger"
)

var (
	// Global flags
	configFile string
	tickerFile string
	interval   string
	startDate  string
	logLevel   string
	logPretty  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pfa",
	Short: "Portfolio factor analysis",
	Long: `pfa reads a watch list of ticker symbols, caches their price history in
SQLite and reports principal components and risk statistics of their log
returns.

Examples:
  pfa analyze pca
  pfa analyze risk --format msgpack > risk.msgpack
  pfa prefetch --tickers data/watchlist.txt
  pfa fundamentals AAPL --freq annual
  pfa serve`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (default $PFA_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&tickerFile, "tickers", "", "ticker list file, one symbol per line")
	rootCmd.PersistentFlags().StringVar(&interval, "interval", "", "sampling interval (1d, 1wk, 1mo, ...)")
	rootCmd.PersistentFlags().StringVar(&startDate, "start", "", "first date kept in the analysis (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", false, "human-readable log output")
}

// app bundles what a command needs after startup
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	container *di.Container
	jobs      *di.JobInstances
}

// bootstrap loads configuration, builds the logger and wires dependencies.
// Callers must Close the returned app.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile, config.Overrides{
		TickerFile: tickerFile,
		Interval:   interval,
		StartDate:  startDate,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty || logPretty,
	})
	for _, warning := range cfg.Warnings {
		log.Warn().Msg(warning)
	}

	container, jobs, err := di.Wire(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("wire dependencies: %w", err)
	}

	return &app{cfg: cfg, log: log, container: container, jobs: jobs}, nil
}

// Close releases the app's resources
func (a *app) Close() {
	if err := a.container.Close(); err != nil {
		a.log.Error().Err(err).Msg("Failed to close container")
	}
}
