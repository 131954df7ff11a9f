package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("full configuration", func(t *testing.T) {
		app, err := Parse([]byte(`
log_level: debug
cache:
  validate_in_database: true
  auto_cleanup: false
  max_cache_age: 30m
  log_operations: false
remote:
  base_url: https://myproject.supabase.co
  api_key: secret
  timeout: 5s
`))
		require.NoError(t, err)

		assert.Equal(t, "debug", app.LogLevel)
		assert.True(t, app.Cache.ValidateInDatabase)
		assert.False(t, app.Cache.AutoCleanup)
		assert.Equal(t, 30*time.Minute, app.Cache.MaxCacheAge)
		assert.False(t, app.Cache.LogOperations)
		assert.Equal(t, "https://myproject.supabase.co", app.Remote.BaseURL)
		assert.Equal(t, "secret", app.Remote.APIKey)
		assert.Equal(t, 5*time.Second, app.Remote.Timeout)
	})

	t.Run("empty file gets defaults", func(t *testing.T) {
		app, err := Parse([]byte(""))
		require.NoError(t, err)

		assert.Equal(t, "info", app.LogLevel)
		assert.False(t, app.Cache.ValidateInDatabase)
		assert.True(t, app.Cache.AutoCleanup)
		assert.Equal(t, time.Hour, app.Cache.MaxCacheAge)
		assert.True(t, app.Cache.LogOperations)
	})

	t.Run("partial cache section keeps other defaults", func(t *testing.T) {
		app, err := Parse([]byte("cache:\n  max_cache_age: 2h\n"))
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, app.Cache.MaxCacheAge)
		assert.True(t, app.Cache.AutoCleanup)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Parse([]byte("cache:\n  max_cache_age: soonish\n"))
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := Parse([]byte("log_level: verbose\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log_level")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("cache: ["))
		assert.Error(t, err)
	})

	t.Run("database validation requires the remote section", func(t *testing.T) {
		_, err := Parse([]byte("cache:\n  validate_in_database: true\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base_url")
	})

	t.Run("database validation off leaves remote optional", func(t *testing.T) {
		app, err := Parse([]byte("cache:\n  validate_in_database: false\n"))
		require.NoError(t, err)
		assert.Empty(t, app.Remote.BaseURL)
	})
}

func TestLoad(t *testing.T) {
	t.Run("round trip through a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))

		app, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", app.LogLevel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
