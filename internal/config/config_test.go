package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Feed.URL)
	assert.Equal(t, 2*time.Minute, cfg.Feed.Timeout)
	assert.Equal(t, "append", cfg.Feed.GalleryMode)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.Interval)
	assert.True(t, cfg.Storage.IsMemory())
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 10*time.Minute, cfg.HTTP.TokenTTL)
	assert.False(t, cfg.Notifications.Telegram.Enabled())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
feed:
  url: https://shop.salesdrive.me/export/yml/export.yml
  gallery_mode: replace
scheduler:
  interval: 15m
  run_on_start: false
storage:
  dsn: sqlite:///var/lib/salesdrive/catalog.db
events:
  brokers: [kafka:9092]
media:
  urls: [https://cdn.example/a.jpg]
notifications:
  telegram:
    bot_token: file-token
    chat_id: "42"
`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv("SALESDRIVE_HTTP_ADDR", ":9090")
	t.Setenv("SALESDRIVE_CACHE_TTL", "1m")
	t.Setenv("SALESDRIVE_FEED_GALLERY_MODE", "append")
	t.Setenv(telegramTokenEnv, "env-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.salesdrive.me/export/yml/export.yml", cfg.Feed.URL)
	assert.Equal(t, "append", cfg.Feed.GalleryMode)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval)
	assert.False(t, cfg.Scheduler.RunOnStart)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "sqlite:///var/lib/salesdrive/catalog.db", cfg.Storage.DSN)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Events.Brokers)
	assert.Equal(t, []string{"https://cdn.example/a.jpg"}, cfg.Media.URLs)
	assert.Equal(t, "salesdrive-product-events", cfg.Events.Topic)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "env-token", cfg.Notifications.Telegram.BotToken)
	assert.True(t, cfg.Notifications.Telegram.Enabled())
}

func TestLoadBrokenFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed: [unterminated"), 0o600))
	t.Setenv(configPathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaultConfig().HTTP.Addr, cfg.HTTP.Addr)
}

func TestLoadInvalidEnvDuration(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("SALESDRIVE_FEED_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMediaURLsFromEnv(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("SALESDRIVE_MEDIA_URLS", "https://cdn.example/a.jpg,https://cdn.example/b.jpg")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"}, cfg.Media.URLs)
}
