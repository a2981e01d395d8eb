package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	PortfolioCSV string
	BenchmarkCSV string
	FetchTimeout time.Duration
	// JitterSeed makes the live-return jitter reproducible when set.
	JitterSeed    *uint64
	ChartCacheTTL time.Duration

	TelegramToken    string
	WebhookPublicURL string
	OpenAIKey        string
	OpenAIModel      string
}

// TelegramEnabled reports whether both bot settings are present.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.WebhookPublicURL != ""
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive duration like 10s", k, v)
	}
	return d, nil
}

// Load reads the environment. Every setting has a default, so only malformed
// values are errors.
func Load() (Config, error) {
	cfg := Config{
		Port:             envOr("PORT", "9095"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		PortfolioCSV:     envOr("PORTFOLIO_CSV", "data/backtest_portfolio_data.csv"),
		BenchmarkCSV:     envOr("BENCHMARK_CSV", "data/sp500_data_2007_2025.csv"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookPublicURL: os.Getenv("WEBHOOK_PUBLIC_URL"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      envOr("OPENAI_MODEL", "gpt-4"),
	}

	var err error
	if cfg.FetchTimeout, err = durationEnv("FETCH_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ChartCacheTTL, err = durationEnv("CHART_CACHE_TTL", 60*time.Second); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("JITTER_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JITTER_SEED %q: %w", v, err)
		}
		cfg.JitterSeed = &seed
	}
	return cfg, nil
}
