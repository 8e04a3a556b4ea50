package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Dashboard.Addr)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.BroadcastInterval.Std())
	assert.Equal(t, 100, cfg.Status.ErrorCap)
	assert.Equal(t, 1440, cfg.Status.SampleCap)
	assert.Equal(t, "data/profiles.json", cfg.Profiles.Path)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
guild_id: "123"
dashboard:
  addr: ":9999"
  broadcast_interval: 2s
status:
  error_cap: 7
profiles:
  url: https://example.com/profiles.json
  refresh: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "123", cfg.GuildID)
	assert.Equal(t, ":9999", cfg.Dashboard.Addr)
	assert.Equal(t, 2*time.Second, cfg.Dashboard.BroadcastInterval.Std())
	assert.Equal(t, 7, cfg.Status.ErrorCap)
	// Untouched values keep their defaults
	assert.Equal(t, 1440, cfg.Status.SampleCap)
	assert.Equal(t, time.Minute, cfg.Profiles.Refresh.Std())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard:\n  broadcast_interval: soon\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestTokenComesFromEnvironment(t *testing.T) {
	t.Setenv("CAPITOL_TOKEN", "secret")
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Token)
}
