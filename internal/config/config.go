package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSecretKey = "your_default_secret_key"

const (
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
)

var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY environment variable is required")

type Config struct {
	GeminiAPIKey         string        `mapstructure:"gemini_api_key"`
	GeminiModel          string        `mapstructure:"gemini_model"`
	SecretKey            string        `mapstructure:"secret_key"`
	DatabaseURL          string        `mapstructure:"database_url"`
	HTTPPort             string        `mapstructure:"http_port"`
	LogLevel             string        `mapstructure:"log_level"`
	SessionBackend       string        `mapstructure:"session_backend"`
	SessionTTL           time.Duration `mapstructure:"session_ttl"`
	SessionPurgeInterval time.Duration `mapstructure:"session_purge_interval"`
	CookieSecure         bool          `mapstructure:"cookie_secure"`
	RedisAddr            string        `mapstructure:"redis_addr"`
	RedisPassword        string        `mapstructure:"redis_password"`
	RedisDB              int           `mapstructure:"redis_db"`
	TokenTTL             time.Duration `mapstructure:"token_ttl"`
}

// UsesDefaultSecret reports whether cookies and tokens are signed with the
// built-in development secret.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == defaultSecretKey
}

// Load reads a .env file if one exists, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// The original deployment used GOOGLE_API_KEY; GEMINI_API_KEY is accepted too.
	if err := v.BindEnv("gemini_api_key", "GOOGLE_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg.SessionBackend = strings.ToLower(strings.TrimSpace(cfg.SessionBackend))
	switch cfg.SessionBackend {
	case SessionBackendSQLite, SessionBackendRedis:
	default:
		return nil, fmt.Errorf("unsupported SESSION_BACKEND %q", cfg.SessionBackend)
	}

	if err := cfg.validateDurations(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateDurations() error {
	for _, d := range []struct {
		env   string
		value time.Duration
	}{
		{"SESSION_TTL", c.SessionTTL},
		{"SESSION_PURGE_INTERVAL", c.SessionPurgeInterval},
		{"TOKEN_TTL", c.TokenTTL},
	} {
		if d.value <= 0 {
			return fmt.Errorf("%s must be a positive duration, got %s", d.env, d.value)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini_model", "gemini-1.5-pro")
	v.SetDefault("secret_key", defaultSecretKey)
	v.SetDefault("database_url", "users.db")
	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("session_backend", SessionBackendSQLite)
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("session_purge_interval", "10m")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("token_ttl", "24h")
}
