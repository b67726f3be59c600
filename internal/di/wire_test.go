package di

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pfa/internal/clients/yahoo"
	"github.com/aristath/pfa/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.TickerFile = cfg.DataDir + "/watchlist.txt"
	return cfg
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)
	log := zerolog.Nop()

	container, jobs, err := Wire(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, container.Close()) })

	assert.NotNil(t, container.CacheDB)
	assert.NotNil(t, container.Cache)
	assert.NotNil(t, container.Analysis)
	assert.NotNil(t, container.Fundamentals)
	assert.NotNil(t, container.Scheduler)
	assert.IsType(t, &yahoo.NativeClient{}, container.PriceSource)
	assert.Nil(t, container.Backup)

	assert.NotNil(t, jobs.Prefetch)
	assert.NotNil(t, jobs.WALCheckpoints)
	assert.NotNil(t, jobs.Maintenance)
	assert.Nil(t, jobs.Backup)

	names := []string{}
	for _, info := range container.Scheduler.Jobs() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"check_wal_checkpoints", "daily_maintenance", "prefetch"}, names)
}

func TestWire_ChartSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.PriceSource = config.SourceChart

	container, _, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	assert.IsType(t, &yahoo.ChartClient{}, container.PriceSource)
}

func TestWire_EmptyWatchlist(t *testing.T) {
	cfg := testConfig(t)

	container, _, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	// Missing ticker file degrades to empty results
	assert.True(t, container.Analysis.PCAnalysis(context.Background()).Empty())
	assert.True(t, container.Analysis.RiskAnalysis(context.Background()).Empty())
}

func TestWire_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedule.Prefetch = "whenever"

	_, _, err := Wire(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to register jobs")
}

func TestWire_NilConfig(t *testing.T) {
	_, _, err := Wire(context.Background(), nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestContainer_CloseNil(t *testing.T) {
	var c *Container
	assert.NoError(t, c.Close())
}
