package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "SALESDRIVE_CONFIG"
	envPrefix     = "SALESDRIVE"

	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Feed          FeedConfig         `yaml:"feed"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Storage       StorageConfig      `yaml:"storage"`
	Cache         CacheConfig        `yaml:"cache"`
	HTTP          HTTPConfig         `yaml:"http"`
	Events        EventsConfig       `yaml:"events"`
	Media         MediaConfig        `yaml:"media"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig sets the slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FeedConfig points at the SalesDrive export. An empty URL disables syncing.
type FeedConfig struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`
	GalleryMode string        `yaml:"gallery_mode" split_words:"true"`
}

// SchedulerConfig defines how often the sync runs.
type SchedulerConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Interval   time.Duration `yaml:"interval"`
	RunOnStart bool          `yaml:"run_on_start" split_words:"true"`
}

// StorageConfig selects the catalog store: memory, postgres://, mysql:// or sqlite://.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// IsMemory reports whether the in-process store is selected.
func (s StorageConfig) IsMemory() bool {
	return s.DSN == "" || s.DSN == "memory"
}

// CacheConfig holds presentation cache and token store settings.
type CacheConfig struct {
	Type     string        `yaml:"type"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// HTTPConfig configures the trigger API.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	TriggerRate  time.Duration `yaml:"trigger_rate" split_words:"true"`
	TriggerBurst int           `yaml:"trigger_burst" split_words:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" split_words:"true"`
}

// EventsConfig enables Kafka outcome events when brokers are set.
type EventsConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// MediaConfig lists image URLs registered as attachments at startup.
type MediaConfig struct {
	URLs []string `yaml:"urls"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token" split_words:"true"`
	ChatID   string `yaml:"chat_id" split_words:"true"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads .env, the YAML file named by SALESDRIVE_CONFIG (if any) and SALESDRIVE_* overrides.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := parseFile(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyLegacyEnv()

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: environment overrides: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// parseFile decodes YAML over cfg so omitted keys keep their defaults.
func parseFile(raw []byte, cfg *Config) error {
	fileCfg := *cfg
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return err
	}
	*cfg = fileCfg
	return nil
}

func (c *Config) applyLegacyEnv() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) normalize() {
	defaults := defaultConfig()

	c.Feed.URL = strings.TrimSpace(c.Feed.URL)
	if c.Feed.Timeout <= 0 {
		c.Feed.Timeout = defaults.Feed.Timeout
	}
	if c.Scheduler.Interval <= 0 {
		c.Scheduler.Interval = defaults.Scheduler.Interval
	}
	if c.Cache.Type == "" {
		c.Cache.Type = defaults.Cache.Type
	}
	if c.HTTP.TokenTTL <= 0 {
		c.HTTP.TokenTTL = defaults.HTTP.TokenTTL
	}
	if c.HTTP.TriggerBurst <= 0 {
		c.HTTP.TriggerBurst = defaults.HTTP.TriggerBurst
	}
	if c.Events.Topic == "" {
		c.Events.Topic = defaults.Events.Topic
	}
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Feed: FeedConfig{
			Timeout:     2 * time.Minute,
			GalleryMode: "append",
		},
		Scheduler: SchedulerConfig{Enabled: true, Interval: 30 * time.Minute, RunOnStart: true},
		Storage:   StorageConfig{DSN: "memory"},
		Cache: CacheConfig{
			Type: "memory",
			Addr: "localhost:6379",
			TTL:  5 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr:         ":8080",
			TriggerRate:  time.Minute,
			TriggerBurst: 3,
			TokenTTL:     10 * time.Minute,
		},
		Events: EventsConfig{Topic: "salesdrive-product-events"},
	}
}
