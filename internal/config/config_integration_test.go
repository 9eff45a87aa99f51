package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullWorkflow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cinegrid", "config.toml")
	require.NoError(t, WriteDefault(cfgPath, Defaults{}))

	t.Setenv("TMDB_API_KEY", "test-tmdb-key")
	t.Setenv("CINEGRID_ADMIN_KEY", "test-admin-key")
	t.Setenv("CINEGRID_DATA", "/srv/cinegrid")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "test-tmdb-key", cfg.TMDB.APIKey)
	assert.True(t, cfg.TMDB.Enabled())
	assert.Equal(t, "test-admin-key", cfg.Auth.AdminKey)
	assert.Equal(t, "/srv/cinegrid/cinegrid.db", cfg.Database.Path)
	assert.Equal(t, 40, cfg.TMDB.RateLimit)
	assert.Equal(t, 10*time.Second, cfg.TMDB.RateWindow)
	assert.Equal(t, 5*time.Minute, cfg.TMDB.SearchTTL)
	assert.Equal(t, time.Hour, cfg.TMDB.DetailsTTL)
}

func TestFullWorkflow_NoSecrets(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(cfgPath, Defaults{}))

	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("CINEGRID_ADMIN_KEY", "")

	cfg, err := Load(cfgPath)
	require.NoError(t, err, "a fresh config loads without any environment")
	assert.False(t, cfg.TMDB.Enabled())
	assert.Empty(t, cfg.Auth.AdminKey)
}
