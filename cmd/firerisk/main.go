package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/fire-risk-service/internal/adapter/firms"
	"github.com/couchcryptid/fire-risk-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/fire-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/fire-risk-service/internal/config"
	"github.com/couchcryptid/fire-risk-service/internal/corpus"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
	"github.com/couchcryptid/fire-risk-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := corpus.NewLoader(cfg.FireDataDir, logger, metrics)

	// Optionally pull missing yearly archives before the first load
	// (feature-flagged via FIRMS_SYNC_ENABLED / FIRMS_MAP_KEY).
	if cfg.FIRMSEnabled {
		client := firms.NewClient(cfg.FIRMSMapKey, cfg.FIRMSTimeout, logger)
		logger.Info("firms sync enabled", "area", cfg.FIRMSArea, "timeout", cfg.FIRMSTimeout)
		if err := client.EnsureYears(ctx, cfg.FireDataDir, cfg.FIRMSArea, corpus.Years()); err != nil {
			logger.Error("firms sync failed", "error", err)
		}
	} else {
		logger.Info("firms sync disabled")
	}

	// Optional summary feed (feature-flagged via KAFKA_ENABLED).
	var publisher service.SummaryPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("summary feed enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("summary feed disabled")
	}

	svc := service.New(loader, publisher, cfg.SearchRadius, cfg.ScoreCacheSize, logger, metrics)

	// The service refuses to start without a corpus; scoring against nothing
	// would silently report every track as safe.
	if err := svc.Refresh(ctx); err != nil {
		logger.Error("initial corpus load failed", "error", err)
		os.Exit(1)
	}

	refresher := service.NewRefresher(svc, cfg.ReloadInterval, logger)
	if err := refresher.Start(); err != nil {
		logger.Error("failed to start corpus refresher", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, svc, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	refresher.Stop()
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
