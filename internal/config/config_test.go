package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "courtside.db", cfg.DatabasePath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Second, time.Duration(cfg.RequestInterval))
}

func TestLoadYAMLDuration(t *testing.T) {
	path := writeConfig(t, `
database_path: games.db
request_interval: 750ms
use_browser: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "games.db", cfg.DatabasePath)
	assert.Equal(t, 750*time.Millisecond, time.Duration(cfg.RequestInterval))
	assert.True(t, cfg.UseBrowser)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "request_interval: soon\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, "database_path: from-yaml.db\nport: \"9000\"\n")

	t.Setenv("COURTSIDE_DB", "from-env.db")
	t.Setenv("COURTSIDE_REQUEST_INTERVAL_MS", "200")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.DatabasePath)
	assert.Equal(t, "9000", cfg.Port, "yaml still applies where env is unset")
	assert.Equal(t, 200*time.Millisecond, time.Duration(cfg.RequestInterval))
}

func TestLoadRejectsBadIntervalEnv(t *testing.T) {
	t.Setenv("COURTSIDE_REQUEST_INTERVAL_MS", "fast")

	_, err := Load("")
	require.Error(t, err)
}
