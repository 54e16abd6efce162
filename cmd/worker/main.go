package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/vitanips/platform-api/config"
	"github.com/vitanips/platform-api/internal/repository/postgres"
	"github.com/vitanips/platform-api/pkg/logger"
	"github.com/vitanips/platform-api/pkg/messaging/redis"
	"github.com/vitanips/platform-api/pkg/metrics"
	"github.com/vitanips/platform-api/pkg/worker"
)

// Standalone outbox worker. Runs the same processor the API embeds, for
// deployments that split event publishing from request serving.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database.ToDatabaseConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		cfg.Outbox.ToWorkerConfig(),
		logger.NewLogger(nil),
		metrics.NewMetrics("platform", "worker"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker...")
	cancel()
}
