package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officesim-backend/internal/office"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "simulation:\n  enabled: true\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, 200*time.Millisecond, cfg.Server.StreamInterval)
	assert.True(t, cfg.Simulation.Enabled)
	assert.Equal(t, 33*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, 20, cfg.Simulation.WorkerCount)
	assert.Equal(t, DefaultMaxTicksPerRequest, cfg.Simulation.MaxTicksPerRequest)
	assert.Equal(t, DefaultMaxWorkers, cfg.Simulation.MaxWorkers)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.False(t, cfg.Push.Enabled())

	oc := cfg.Simulation.Office()
	require.NoError(t, oc.Validate())
	assert.Equal(t, 60.0, oc.DayDuration)
	assert.Equal(t, 3, oc.MaxDeskSearchAttempts)
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2, cfg.WorkerPool.Size)
	assert.Equal(t, 16, cfg.Simulation.DeskCount)

	oc := cfg.Simulation.Office()
	assert.Equal(t, 2.5, oc.WorkerSpeed)
	assert.Equal(t, 10, oc.EventsMax)
	assert.False(t, oc.Managed)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [1, 2"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 16, cfg.Simulation.DeskCount)
	assert.Equal(t, 0.01, cfg.Simulation.TimePerTick)
	assert.Equal(t, 30, cfg.Simulation.PersistEveryTicks)
	assert.Equal(t, office.DefaultConfig(), cfg.Simulation.Office())
}
