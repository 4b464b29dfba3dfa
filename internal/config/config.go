// Package config loads process configuration from the environment, with an
// optional .env file underneath.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	DBPath string `validate:"required"`

	HTTPAddr   string `validate:"required,hostname_port|startswith=:"`
	JWTSecret  string `validate:"omitempty,min=16"`
	CronSecret string `validate:"omitempty,min=16"`

	// RedisAddr enables the shared scan lock; empty uses an in-process lock.
	RedisAddr     string `validate:"omitempty,hostname_port"`
	RedisPassword string
	RedisDB       int           `validate:"gte=0,lte=15"`
	ScanLockTTL   time.Duration `validate:"gte=1m"`

	LogLevel        string `validate:"oneof=debug info warn error"`
	LogServiceCalls bool
}

var validate = validator.New()

// Load reads envFile (when it exists) and then MIRROR_* variables. Variables
// already set in the process win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := Config{
		DBPath:      defaultDBPath(),
		HTTPAddr:    ":8080",
		ScanLockTTL: 10 * time.Minute,
		LogLevel:    "info",
	}

	setString("MIRROR_DB", &cfg.DBPath)
	setString("MIRROR_HTTP_ADDR", &cfg.HTTPAddr)
	setString("MIRROR_JWT_SECRET", &cfg.JWTSecret)
	setString("MIRROR_CRON_SECRET", &cfg.CronSecret)
	setString("MIRROR_REDIS_ADDR", &cfg.RedisAddr)
	setString("MIRROR_REDIS_PASSWORD", &cfg.RedisPassword)
	setString("MIRROR_LOG_LEVEL", &cfg.LogLevel)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if v := os.Getenv("MIRROR_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("MIRROR_REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}
	if v := os.Getenv("MIRROR_SCAN_LOCK_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("MIRROR_SCAN_LOCK_TTL: %w", err)
		}
		cfg.ScanLockTTL = d
	}
	if v := os.Getenv("MIRROR_LOG_SERVICE_CALLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("MIRROR_LOG_SERVICE_CALLS: %w", err)
		}
		cfg.LogServiceCalls = b
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// RequireServerSecrets checks the settings only the HTTP server needs.
func (c Config) RequireServerSecrets() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "MIRROR_JWT_SECRET")
	}
	if c.CronSecret == "" {
		missing = append(missing, "MIRROR_CRON_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("serve requires %s", strings.Join(missing, " and "))
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mirror.db"
	}
	return filepath.Join(home, ".mirror", "mirror.db")
}
