package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/weather-insight/internal/adapter/http"
	"github.com/couchcryptid/weather-insight/internal/adapter/identme"
	"github.com/couchcryptid/weather-insight/internal/adapter/ipapi"
	kafkaadapter "github.com/couchcryptid/weather-insight/internal/adapter/kafka"
	"github.com/couchcryptid/weather-insight/internal/adapter/metno"
	"github.com/couchcryptid/weather-insight/internal/adapter/plotly"
	"github.com/couchcryptid/weather-insight/internal/cache"
	"github.com/couchcryptid/weather-insight/internal/config"
	"github.com/couchcryptid/weather-insight/internal/domain"
	"github.com/couchcryptid/weather-insight/internal/observability"
	"github.com/couchcryptid/weather-insight/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	locations := cache.New[domain.Location](cfg.CacheTTL, cfg.CacheSize, cache.WithClock(clock))
	forecasts := cache.New[[]domain.ForecastEntry](cfg.CacheTTL, cfg.CacheSize, cache.WithClock(clock))

	janitor, err := cache.NewJanitor(cfg.CachePurgeSchedule, map[string]cache.Purger{
		"location": locations,
		"forecast": forecasts,
	}, logger)
	if err != nil {
		logger.Error("failed to schedule cache purge", "error", err)
		os.Exit(1)
	}

	lookup := identme.NewClient(cfg.IdentMeURL, cfg.UserAgent, cfg.UpstreamTimeout, metrics, logger)
	resolver := ipapi.NewCachedResolver(
		ipapi.NewClient(cfg.IPAPIBaseURL, cfg.UserAgent, cfg.UpstreamTimeout, metrics, logger),
		locations, metrics,
	)
	fetcher := metno.NewCachedFetcher(
		metno.NewClient(cfg.MetnoBaseURL, cfg.UserAgent, cfg.UpstreamTimeout, cfg.MetnoRateLimit, cfg.MetnoRateBurst, metrics, logger),
		forecasts, clock, metrics,
	)
	transformer := pipeline.NewTransformer(plotly.NewRenderer(), logger)

	// Publishing is feature-flagged via KAFKA_ENABLED.
	var publisher domain.ReportPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("report publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("report publishing disabled")
	}

	p := pipeline.New(lookup, resolver, fetcher, transformer, publisher, logger, metrics,
		pipeline.WithPublishTimeout(cfg.KafkaPublishTimeout))
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	janitor.Start()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	p.Drain()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	janitor.Stop()
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
