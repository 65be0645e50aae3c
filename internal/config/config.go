package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
	BackendMemory = "memory"
)

// DefaultUndoWindow is how long a deletion stays reversible.
const DefaultUndoWindow = 5500 * time.Millisecond

// Config keeps runtime settings for the planner.
type Config struct {
	StorageBackend string
	StoragePath    string
	TelegramToken  string
	TelegramChatID int64
	DigestTime     string
	DigestInterval time.Duration
	UndoWindow     time.Duration
	LogLevel       string
}

// Load reads .focusflow.yaml (if present) and FOCUSFLOW_* environment
// variables, applying defaults for anything unset.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("digest.time", "")
	v.SetDefault("digest.interval_hours", "")
	v.SetDefault("undo.window", DefaultUndoWindow.String())
	v.SetDefault("log.level", "info")

	v.SetConfigName(".focusflow")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FOCUSFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("FOCUSFLOW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		StorageBackend: strings.ToLower(strings.TrimSpace(v.GetString("storage.backend"))),
		StoragePath:    strings.TrimSpace(v.GetString("storage.path")),
		TelegramToken:  strings.TrimSpace(v.GetString("telegram.token")),
		TelegramChatID: v.GetInt64("telegram.chat_id"),
		DigestTime:     strings.TrimSpace(v.GetString("digest.time")),
		DigestInterval: parseInterval(strings.TrimSpace(v.GetString("digest.interval_hours"))),
		UndoWindow:     parseWindow(strings.TrimSpace(v.GetString("undo.window"))),
		LogLevel:       strings.TrimSpace(v.GetString("log.level")),
	}

	switch cfg.StorageBackend {
	case BackendSQLite:
		if cfg.StoragePath == "" {
			cfg.StoragePath = "focusflow.db"
		}
	case BackendDiskv:
		if cfg.StoragePath == "" {
			cfg.StoragePath = "focusflow.d"
		}
	case BackendMemory:
	default:
		return cfg, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	return cfg, nil
}

// RequireTelegram checks the settings the bot cannot start without.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("FOCUSFLOW_TELEGRAM_TOKEN is required")
	}
	return nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseWindow(raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return DefaultUndoWindow
	}
	return d
}
