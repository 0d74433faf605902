package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airline/config"
	"github.com/Domenick1991/airline/internal/bootstrap"
	"github.com/Domenick1991/airline/internal/cache"
	"github.com/Domenick1991/airline/internal/kafka"
	"github.com/Domenick1991/airline/internal/logging"
	"github.com/Domenick1991/airline/internal/repository"
	"github.com/Domenick1991/airline/internal/service/flights"
	"github.com/Domenick1991/airline/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.Log, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisClient := cache.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()

	flightService := flights.NewFlightService(
		repository.NewFlightRepository(pool),
		repository.NewPassengerRepository(pool),
		cache.NewRedisCache(redisClient, cfg.Flights.CacheTTL()),
		producer,
		cfg.Kafka.BookingTopic,
		flights.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		flights.WithLogger(logger),
	)
	userService := users.NewUserService(
		repository.NewUserRepository(pool),
		cache.NewSessionStore(redisClient),
		cfg.Session.TTL(),
		users.WithLogger(logger),
	)

	err = bootstrap.Run(ctx, cfg, bootstrap.Deps{
		Flights: flightService,
		Users:   userService,
		Logger:  logger,
		Checks: map[string]bootstrap.Check{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			"kafka":    producer.CheckConnection,
		},
	})
	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
