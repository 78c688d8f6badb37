package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config keeps runtime settings. SystemDark stands in for the OS dark-mode
// preference when the theme is "system".
type Config struct {
	Storage    StorageConfig  `yaml:"storage"`
	Telegram   TelegramConfig `yaml:"telegram"`
	Backup     BackupConfig   `yaml:"backup"`
	SystemDark bool           `yaml:"system_dark"`
	LogLevel   string         `yaml:"log_level"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

type TelegramConfig struct {
	Token          string        `yaml:"token"`
	OwnerID        int64         `yaml:"owner_id"`
	ReportInterval time.Duration `yaml:"report_interval"`
}

type BackupConfig struct {
	Dir  string `yaml:"dir"`
	Time string `yaml:"time"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Driver:      DriverSQLite,
			DSN:         "taskflow.db",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "taskflow:",
		},
		Telegram: TelegramConfig{
			ReportInterval: 5 * time.Hour,
		},
		Backup: BackupConfig{
			Time: "03:00",
		},
		LogLevel: "info",
	}
}

// Load applies, in order: defaults, the YAML file at path (if path is not
// empty), then environment variables. A missing file is an error only when
// path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("TASKFLOW_CONFIG"))
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := strings.TrimSpace(os.Getenv(key)); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&cfg.Storage.Driver, "TASKFLOW_DRIVER")
	setString(&cfg.Storage.DSN, "TASKFLOW_DSN", "DATABASE_URL")
	setString(&cfg.Storage.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Storage.RedisPrefix, "REDIS_PREFIX")
	setString(&cfg.Telegram.Token, "TELEGRAM_TOKEN")
	setString(&cfg.Backup.Dir, "BACKUP_DIR")
	setString(&cfg.Backup.Time, "BACKUP_TIME")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_OWNER_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_OWNER_ID: %w", err)
		}
		cfg.Telegram.OwnerID = id
	}
	if interval := parseInterval(strings.TrimSpace(os.Getenv("REPORT_INTERVAL_HOURS"))); interval > 0 {
		cfg.Telegram.ReportInterval = interval
	}
	if raw := strings.TrimSpace(os.Getenv("TASKFLOW_SYSTEM_DARK")); raw != "" {
		dark, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("TASKFLOW_SYSTEM_DARK: %w", err)
		}
		cfg.SystemDark = dark
	}
	return nil
}

// Validate checks settings every command needs.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// ValidateBot checks the settings the Telegram front end needs.
func (c Config) ValidateBot() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}
	if c.Telegram.OwnerID == 0 {
		errs = append(errs, errors.New("TELEGRAM_OWNER_ID is required"))
	}
	return errors.Join(errs...)
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
