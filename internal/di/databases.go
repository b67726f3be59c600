// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/aristath/pfa/internal/config"
	"github.com/aristath/pfa/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the price cache database
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{Config: cfg}

	cacheDB, err := database.New(database.Config{
		Path:    cfg.CacheDBPath(),
		Profile: database.ProfileCache, // Re-downloadable data
		Name:    config.CacheDBName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}
	container.CacheDB = cacheDB

	log.Info().Str("path", cacheDB.Path()).Msg("Cache database initialized")

	return container, nil
}
