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

	httpadapter "github.com/couchcryptid/nndss-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/nndss-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/nndss-dashboard/internal/config"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tables, err := dataset.NewLoader(cfg.WeeklyDataPath, cfg.AnnualDataPath, logger).Load(ctx)
	if err != nil {
		logger.Error("failed to load surveillance data", "error", err)
		os.Exit(1)
	}

	// View event publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher dashboard.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("view event publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("view event publishing disabled")
	}

	svc := dashboard.NewService(tables, dashboard.Periods{
		RankingWeekYear: cfg.RankingWeekYear,
		RankingWeek:     cfg.RankingWeek,
		RankingYear:     cfg.RankingYear,
		ComparisonYear:  cfg.ComparisonYear,
		ComparisonWeek:  cfg.ComparisonWeek,
		TopN:            cfg.TopN,
	}, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
