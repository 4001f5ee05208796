package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL", "SECRET_KEY", "DATABASE_URL",
		"HTTP_PORT", "LOG_LEVEL", "SESSION_BACKEND", "SESSION_TTL", "SESSION_PURGE_INTERVAL",
		"COOKIE_SECURE", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "TOKEN_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, "users.db", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, SessionBackendSQLite, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.SessionPurgeInterval)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.UsesDefaultSecret())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoad_GeminiAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.GeminiAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.UsesDefaultSecret())
}

func TestLoad_InvalidSessionBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("SESSION_BACKEND", "memcached")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_NonPositiveDurations(t *testing.T) {
	cases := []struct {
		env   string
		value string
	}{
		{"SESSION_TTL", "0s"},
		{"SESSION_TTL", "-1h"},
		{"SESSION_PURGE_INTERVAL", "0"},
		{"SESSION_PURGE_INTERVAL", "-5m"},
		{"TOKEN_TTL", "0s"},
		{"TOKEN_TTL", "-24h"},
	}
	for _, tc := range cases {
		t.Run(tc.env+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GOOGLE_API_KEY", "k")
			t.Setenv(tc.env, tc.value)

			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.env)
		})
	}
}
