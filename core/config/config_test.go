package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "countries", cfg.Database.Name)
	assert.Equal(t, "reports", cfg.Storage.Bucket)
	assert.Equal(t, 20, cfg.Sources.TimeoutSeconds)
	assert.Equal(t, 1000.0, cfg.Refresh.GDPMultiplier)
	assert.Equal(t, 5, cfg.Refresh.TopN)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("REFRESH_GDP_MULTIPLIER", "1500")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 1500.0, cfg.Refresh.GDPMultiplier)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SOURCES_TIMEOUT_SECONDS=7\nLOG_FORMAT=console\n"), 0o600)
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Unsetenv("SOURCES_TIMEOUT_SECONDS")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Sources.TimeoutSeconds)
	assert.Equal(t, "console", cfg.Log.Format)
}
