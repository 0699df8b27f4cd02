package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken    string `envconfig:"BOT_TOKEN"` // empty: notifications go to the log only
	ChatID      int64  `envconfig:"CHAT_ID"`
	Storage     string `envconfig:"STORAGE" default:"sqlite"` // sqlite|file|memory
	DBPath      string `envconfig:"DB_PATH" default:"./data/well-remind.db"`
	StateDir    string `envconfig:"STATE_DIR" default:"./data"`
	DisplayTZ   string `envconfig:"DISPLAY_TZ" default:"UTC"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`    // debug|info|warn|error
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"` // json|console
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`   // healthz + metrics; empty disables
}

// Load reads environment variables into Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints envconfig cannot express.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageFile, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q (supported: %s, %s, %s)",
			c.Storage, StorageSQLite, StorageFile, StorageMemory)
	}
	if c.BotToken != "" && c.ChatID == 0 {
		return fmt.Errorf("CHAT_ID is required when BOT_TOKEN is set")
	}
	if _, err := time.LoadLocation(c.DisplayTZ); err != nil {
		return fmt.Errorf("invalid DISPLAY_TZ %q: %w", c.DisplayTZ, err)
	}
	return nil
}

// Location returns the display timezone, UTC if it cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}
