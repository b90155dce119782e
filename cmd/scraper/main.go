package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	httpadapter "github.com/malosaaa/weerplaza-scraper/internal/adapter/http"
	kafkaadapter "github.com/malosaaa/weerplaza-scraper/internal/adapter/kafka"
	"github.com/malosaaa/weerplaza-scraper/internal/config"
	"github.com/malosaaa/weerplaza-scraper/internal/observability"
	"github.com/malosaaa/weerplaza-scraper/internal/poll"
	"github.com/malosaaa/weerplaza-scraper/internal/scrape"
)

func main() {
	// Optional .env for local development; env vars win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := scrape.NewClient(cfg.BaseURL, cfg.ScrapeTimeout, logger)

	// Tick publication to Kafka is feature-flagged via KAFKA_ENABLED.
	var subscribers []poll.Subscriber
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		subscribers = append(subscribers, publisher.HandleTick)
		logger.Info("kafka tick publication enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka tick publication disabled")
	}

	manager := poll.NewManager(client, clockwork.NewRealClock(), logger, metrics, subscribers...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, manager, manager, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, loc := range cfg.Locations {
		err := manager.Configure(ctx, poll.LocationConfig{
			Name:     loc.Name,
			Path:     loc.Path,
			Interval: cfg.ScanInterval,
		})
		if err != nil {
			logger.Error("configure location failed", "location", loc.Name, "error", err)
			os.Exit(1)
		}
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	manager.Close()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
