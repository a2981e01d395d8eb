package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "PORTFOLIO_CSV", "BENCHMARK_CSV", "FETCH_TIMEOUT",
		"CHART_CACHE_TTL", "JITTER_SEED", "TELEGRAM_BOT_TOKEN", "WEBHOOK_PUBLIC_URL", "OPENAI_API_KEY", "OPENAI_MODEL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9095", cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Minute, cfg.ChartCacheTTL)
	assert.Nil(t, cfg.JitterSeed)
	assert.Equal(t, "gpt-4", cfg.OpenAIModel)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("JITTER_SEED", "42")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("WEBHOOK_PUBLIC_URL", "https://example.com/telegram/webhook")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	require.NotNil(t, cfg.JitterSeed)
	assert.Equal(t, uint64(42), *cfg.JitterSeed)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoad_Malformed(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("JITTER_SEED", "-1")
	_, err = Load()
	assert.Error(t, err)
}
