// Package di provides dependency injection wiring and initialization.
package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/config"
	"github.com/aristath/pfa/internal/domain"
)

// Wire initializes all dependencies and returns a fully configured container
// This is the main entry point for dependency injection
// Order of operations:
// 1. Initialize databases
// 2. Initialize services
// 3. Register jobs (the scheduler is created but not started)
func Wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, *JobInstances, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config cannot be nil")
	}

	// Step 1: Initialize databases
	container, err := InitializeDatabases(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize databases: %w", err)
	}

	// Step 2: Initialize services
	if err := InitializeServices(ctx, container, cfg, log); err != nil {
		container.CacheDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Step 3: Register jobs
	jobs, err := RegisterJobs(container, cfg, log)
	if err != nil {
		container.CacheDB.Close()
		return nil, nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	log.Info().Msg("Dependency injection wiring completed successfully")

	return container, jobs, nil
}

// Close releases the container's resources. The scheduler must already be
// stopped.
func (c *Container) Close() error {
	if c == nil || c.CacheDB == nil {
		return nil
	}
	if err := c.CacheDB.Close(); err != nil {
		return fmt.Errorf("failed to close cache database: %w", err)
	}
	return nil
}

func domainInterval(raw string) domain.Interval {
	if raw == "" {
		return domain.IntervalDaily
	}
	return domain.Interval(raw)
}
