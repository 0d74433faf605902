package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airline/config"
	"github.com/Domenick1991/airline/internal/kafka"
	"github.com/Domenick1991/airline/internal/logging"
	"github.com/Domenick1991/airline/internal/notify"
	"github.com/Domenick1991/airline/internal/repository"
	"github.com/Domenick1991/airline/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	// Audits read straight from postgres, so no cache or producer.
	flightService := flights.NewFlightService(
		repository.NewFlightRepository(pool),
		repository.NewPassengerRepository(pool),
		nil,
		nil,
		"",
		flights.WithLogger(logger),
	)

	consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	if err != nil {
		logger.Error("notifications consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	sender := notify.NewSender(cfg.Notify, logger)

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			event, err := kafka.DecodeBookingEvent(msg)
			if err != nil {
				logger.WarnContext(ctx, "skip undecodable event", "error", err)
				return nil
			}
			return sender.Send(ctx, event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("consumer stopped", "error", err)
		}
	}()

	auditTicker := time.NewTicker(time.Duration(cfg.Worker.AuditIntervalMinutes) * time.Minute)
	defer auditTicker.Stop()

	logger.Info("worker started", "topic", cfg.Kafka.NotificationsTopic)

	for {
		select {
		case <-auditTicker.C:
			over, err := flightService.AuditCapacity(ctx)
			if err != nil {
				logger.Error("capacity audit failed", "error", err)
				continue
			}
			for _, f := range over {
				logger.Error("flight over capacity", "flight_id", f.ID, "capacity", f.Capacity, "passengers", f.Passengers)
			}
		case <-ctx.Done():
			logger.Info("shutting down worker")
			return
		}
	}
}
