package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"quantumine/internal/config"
	"quantumine/internal/logger"
	"quantumine/internal/observability"
	"quantumine/internal/openai"
	"quantumine/internal/performance"
	"quantumine/internal/server"
	"quantumine/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("quantumine", "INFO")
		log.Fatal().Err(err).Msg("config: invalid environment")
	}
	logger.Init("quantumine", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := &performance.Loader{
		Portfolio: performance.SourceFor(cfg.PortfolioCSV),
		Benchmark: performance.SourceFor(cfg.BenchmarkCSV),
	}
	if cfg.JitterSeed != nil {
		loader.Random = performance.NewSeededRandom(*cfg.JitterSeed)
		log.Info().Uint64("seed", *cfg.JitterSeed).Msg("data: live jitter seeded")
	}
	loadCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	series, fallback := loader.LoadOrFallback(loadCtx)
	cancel()

	metrics := observability.NewMetrics("quantumine")
	metrics.SetSeries(len(series), fallback)

	analyzer := performance.NewAnalyzer(series, fallback)
	charts := performance.NewChartRenderer(cfg.ChartCacheTTL, metrics)
	agent := openai.NewAgent(cfg.OpenAIKey, cfg.OpenAIModel)
	log.Info().Int("points", len(series)).Bool("fallback", fallback).Bool("agent_online", agent.Online()).
		Msg("data: performance series ready")

	deps := server.Deps{Analyzer: analyzer, Charts: charts, Agent: agent, Metrics: metrics}
	if cfg.TelegramEnabled() {
		tg, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookPublicURL, analyzer, charts, agent)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram: init failed")
		}
		deps.Webhook = tg.WebhookHandler()
	} else {
		log.Info().Msg("telegram: disabled, TELEGRAM_BOT_TOKEN or WEBHOOK_PUBLIC_URL unset")
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("http: listening")
	if err := server.ListenAndServe(ctx, addr, server.NewRouter(deps)); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
