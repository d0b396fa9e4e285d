package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Batch.Delay)
	assert.Equal(t, 20, cfg.Batch.MaxSize)
	assert.True(t, cfg.Scoring.Normalize)
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, cfg.Providers.OpenAI.Models)
	assert.Equal(t, 1000, cfg.Providers.Gemini.MaxTokens)
	assert.False(t, cfg.Providers.Claude.Configured())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OCRBENCH_STORE_DRIVER", "Redis")
	t.Setenv("OCRBENCH_REDIS_KEY_PREFIX", "bench")
	t.Setenv("OCRBENCH_PROVIDERS_GEMINI_API_KEY", "gk-test")
	t.Setenv("OCRBENCH_PROVIDERS_GEMINI_MODELS", " gemini-2.0-flash , ,gemini-exp ")
	t.Setenv("OCRBENCH_BATCH_DELAY", "50ms")
	t.Setenv("OCRBENCH_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OCRBENCH_S3_BUCKET", "images")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "bench", cfg.Redis.KeyPrefix)
	assert.True(t, cfg.Providers.Gemini.Configured())
	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-exp"}, cfg.Providers.Gemini.Models)
	assert.Equal(t, 50*time.Millisecond, cfg.Batch.Delay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.S3.Enabled())
	assert.Same(t, &cfg.Providers.Gemini, cfg.Providers.ByName()["gemini"])
}

func TestLoad_PortOverride(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Port)

	t.Setenv("OCRBENCH_SERVER_PORT", ":7000")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Port)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("OCRBENCH_STORE_DRIVER", "sqlite")

	_, err := config.Load()
	assert.ErrorContains(t, err, "unsupported store driver")
}

func TestLoad_RejectsZeroBatchSize(t *testing.T) {
	t.Setenv("OCRBENCH_BATCH_MAX_SIZE", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", db.DSN())
}
