package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/reefwatch/coral-alert-etl/internal/adapter/http"
	kafkaadapter "github.com/reefwatch/coral-alert-etl/internal/adapter/kafka"
	"github.com/reefwatch/coral-alert-etl/internal/adapter/textfile"
	"github.com/reefwatch/coral-alert-etl/internal/config"
	"github.com/reefwatch/coral-alert-etl/internal/observability"
	"github.com/reefwatch/coral-alert-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	siteRegistry, err := config.LoadSites(cfg.SitesFile)
	if err != nil {
		logger.Error("failed to load site registry", "error", err)
		os.Exit(1)
	}
	sites := make([]pipeline.Site, len(siteRegistry))
	for i, s := range siteRegistry {
		sites[i] = pipeline.Site{Code: s.Code, Name: s.Name}
	}

	deps := pipeline.Deps{
		Lister:    textfile.NewLister(cfg.InputDir),
		Samples:   textfile.NewSampleReader(logger),
		Baselines: textfile.NewMonthlyMeansReader(cfg.ClimatologyDir),
		Reports:   textfile.NewReportWriter(cfg.OutputDir),
	}

	// Alert publication is feature-flagged via KAFKA_BROKERS.
	var publisher *kafkaadapter.Publisher
	if cfg.AlertsEnabled {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		deps.Alerts = publisher
		logger.Info("alert publication enabled", "topic", cfg.KafkaAlertTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("alert publication disabled")
	}

	p := pipeline.New(deps, sites, logger, metrics, pipeline.Options{
		SiteWorkers: cfg.SiteWorkers,
		GapPolicy:   cfg.GapPolicy,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("analysis run failed", "error", runErr)
	} else {
		logger.Info("analysis run complete")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}
