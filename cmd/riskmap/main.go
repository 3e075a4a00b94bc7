package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/risk-map-service/internal/adapter/census"
	httpadapter "github.com/couchcryptid/risk-map-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/risk-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/risk-map-service/internal/config"
	"github.com/couchcryptid/risk-map-service/internal/dashboard"
	"github.com/couchcryptid/risk-map-service/internal/domain"
	"github.com/couchcryptid/risk-map-service/internal/observability"
	"github.com/couchcryptid/risk-map-service/internal/riskmap"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
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

	client := census.NewClient(cfg.StateShapefileURL, cfg.CountyShapefileURL,
		cfg.FetchTimeout, cfg.FetchRetryBackoff, clock, metrics, logger)
	source := census.NewCachedSource(client, metrics)

	// Layer summary publishing is feature-flagged via KAFKA_ENABLED.
	var publisher riskmap.LayerPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("layer publishing enabled", "topic", cfg.KafkaLayerTopic)
	} else {
		logger.Info("layer publishing disabled")
	}

	builder := riskmap.New(source, domain.SeededScores{Seed: cfg.ScoreSeed}, publisher, clock, logger, metrics)
	dash := dashboard.Generator{Seed: cfg.ScoreSeed}

	srv := httpadapter.NewServer(cfg.HTTPAddr, builder, dash, builder, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the region cache so the first request skips the download.
	if cfg.PrefetchRegions {
		go func() {
			if err := builder.Prefetch(ctx, domain.Granularities...); err != nil {
				logger.Warn("region prefetch incomplete, loading on first request", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
