// Package config loads runtime settings for the sheet CLI and server.
// Values resolve in order: defaults, optional config file, RPGSHEET_*
// environment (a .env file is loaded first when present), then any flags
// bound to the viper instance.
package config

import (
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "RPGSHEET"

// Keys shared by defaults, flags and the environment
const (
	KeyDBPath      = "db_path"
	KeyRedisAddr   = "redis_addr"
	KeyUserID      = "user_id"
	KeyHTTPAddr    = "http_addr"
	KeyLogLevel    = "log_level"
	KeySyncTimeout = "sync_timeout"
)

// LogLevels are the accepted log_level values
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config is the resolved runtime configuration
type Config struct {
	DBPath string `mapstructure:"db_path"`
	// RedisAddr is a host:port or redis:// URL; empty disables remote features
	RedisAddr   string        `mapstructure:"redis_addr"`
	UserID      string        `mapstructure:"user_id"`
	HTTPAddr    string        `mapstructure:"http_addr"`
	LogLevel    string        `mapstructure:"log_level"`
	SyncTimeout time.Duration `mapstructure:"sync_timeout"`
}

// Validate checks the resolved values
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired(KeyDBPath, c.DBPath, vb)
	errors.ValidateRequired(KeyHTTPAddr, c.HTTPAddr, vb)
	errors.ValidateEnum(KeyLogLevel, strings.ToLower(c.LogLevel), LogLevels, vb)
	if c.SyncTimeout <= 0 {
		vb.Field(KeySyncTimeout, "must be positive")
	}

	return vb.Build()
}

// RemoteEnabled reports whether a remote store is configured
func (c *Config) RemoteEnabled() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

// SlogLevel maps log_level onto a slog level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

// NewViper returns a viper instance with defaults and environment
// overrides installed. Callers bind flags before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDBPath, "rpg-sheet.db")
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyUserID, "")
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeySyncTimeout, "10s")
}

// LoadDotEnv loads a .env style file into the process environment.
// A missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "failed to load env file %s", path)
	}
	return nil
}

// LoadInput configures Load
type LoadInput struct {
	Viper *viper.Viper
	// ConfigFile is an optional yaml/json/toml file
	ConfigFile string
}

// Load resolves and validates the configuration
func Load(input *LoadInput) (*Config, error) {
	if input == nil {
		input = &LoadInput{}
	}
	v := input.Viper
	if v == nil {
		v = NewViper()
	}

	if input.ConfigFile != "" {
		v.SetConfigFile(input.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.InvalidArgumentf("failed to read config file %s: %v", input.ConfigFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	cfg.UserID = strings.TrimSpace(cfg.UserID)
	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
