package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing connection string is fatal", func(t *testing.T) {
		t.Setenv("MONGODB_URI", "")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrMissingMongoURI)
	})

	t.Run("defaults with uri from env", func(t *testing.T) {
		t.Setenv("MONGODB_URI", "mongodb://127.0.0.1:27017")

		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.Mongo.URI)
		assert.Equal(t, "devevent", cfg.Mongo.Database)
		assert.Equal(t, ":8080", cfg.HTTP.Addr)
		assert.Equal(t, 5*time.Second, cfg.Mongo.OpTimeout)
		assert.Equal(t, "https://us.i.posthog.com", cfg.Analytics.Host)
		assert.Empty(t, cfg.Redis.Addr)
	})

	t.Run("file then env overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		yml := "http:\n  addr: \":9000\"\nmongodb:\n  database: fromfile\nquota:\n  limit: 3\n  window: 1h\n"
		require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

		t.Setenv("MONGODB_URI", "mongodb://db:27017")
		t.Setenv("EVENTS_MONGODB_DATABASE", "fromenv")
		t.Setenv("EVENTS_REDIS_ADDR", "redis:6379")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.HTTP.Addr)
		assert.Equal(t, "fromenv", cfg.Mongo.Database)
		assert.Equal(t, "redis:6379", cfg.Redis.Addr)
		assert.Equal(t, 3, cfg.Quota.Limit)
		assert.Equal(t, time.Hour, cfg.Quota.Window)
	})
}
