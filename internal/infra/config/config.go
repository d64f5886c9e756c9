package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"calendrette/internal/domain/period"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL        string `yaml:"database_url"`
	LocalStorePath     string `yaml:"local_store_path"`
	StorageDefault     string `yaml:"storage_default"`
	LogLevel           string `yaml:"log_level"`
	Environment        string `yaml:"environment"`
	TelegramToken      string `yaml:"telegram_token"`
	OwnerTelegramID    int64  `yaml:"owner_telegram_id"`
	CronSpecReminder   string `yaml:"cron_spec_reminder"`
	ReminderLeadDays   int    `yaml:"reminder_lead_days"`
	DefaultCycleLength int    `yaml:"default_cycle_length"`
	Timezone           string `yaml:"timezone"`

	// Resolved from the fields above by Load.
	DefaultKind period.Kind    `yaml:"-"`
	Location    *time.Location `yaml:"-"`
}

func defaults() *AppConfig {
	return &AppConfig{
		LocalStorePath:     "~/.calendrette/local.db",
		StorageDefault:     string(period.KindLocal),
		LogLevel:           "info",
		Environment:        "development",
		CronSpecReminder:   "0 9 * * *", // Default: 9 AM daily
		ReminderLeadDays:   2,
		DefaultCycleLength: 28,
		Timezone:           "Local",
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing precedence. path falls back to
// CALENDRETTE_CONFIG; when both are empty no file is read.
func Load(path string) (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := defaults()

	if path == "" {
		path = os.Getenv("CALENDRETTE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *AppConfig) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("DATABASE_URL", &cfg.DatabaseURL)
	setString("LOCAL_STORE_PATH", &cfg.LocalStorePath)
	setString("STORAGE_DEFAULT", &cfg.StorageDefault)
	setString("LOG_LEVEL", &cfg.LogLevel)
	setString("ENVIRONMENT", &cfg.Environment)
	setString("TELEGRAM_TOKEN", &cfg.TelegramToken)
	setString("CRON_SPEC_REMINDER", &cfg.CronSpecReminder)
	setString("TIMEZONE", &cfg.Timezone)

	var err error
	if ownerIDStr := os.Getenv("OWNER_TELEGRAM_ID"); ownerIDStr != "" {
		cfg.OwnerTelegramID, err = strconv.ParseInt(ownerIDStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid OWNER_TELEGRAM_ID: %w", err)
		}
	}
	if v := os.Getenv("REMINDER_LEAD_DAYS"); v != "" {
		cfg.ReminderLeadDays, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REMINDER_LEAD_DAYS: %w", err)
		}
	}
	if v := os.Getenv("DEFAULT_CYCLE_LENGTH"); v != "" {
		cfg.DefaultCycleLength, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DEFAULT_CYCLE_LENGTH: %w", err)
		}
	}
	return nil
}

func (cfg *AppConfig) resolve() error {
	var err error

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)

	cfg.DefaultKind, err = period.ParseKind(cfg.StorageDefault)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_DEFAULT: %w", err)
	}

	cfg.Location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	if cfg.ReminderLeadDays < 0 {
		return fmt.Errorf("REMINDER_LEAD_DAYS must not be negative")
	}
	if cfg.DefaultCycleLength <= 0 {
		return fmt.Errorf("DEFAULT_CYCLE_LENGTH must be positive")
	}

	cfg.LocalStorePath, err = expandHome(cfg.LocalStorePath)
	if err != nil {
		return fmt.Errorf("invalid LOCAL_STORE_PATH: %w", err)
	}
	return nil
}

// RequireBot checks the settings only the bot needs.
func (cfg *AppConfig) RequireBot() error {
	if cfg.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	if cfg.OwnerTelegramID == 0 {
		return fmt.Errorf("OWNER_TELEGRAM_ID is not set")
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
