// Command seatworker consumes TripCreated events and writes the initial seat
// inventory of every new trip to Redis.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mateusmacedo/bus-catalog/internal/config"
	"github.com/mateusmacedo/bus-catalog/internal/trip/application"
	"github.com/mateusmacedo/bus-catalog/internal/trip/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
	"github.com/mateusmacedo/bus-catalog/pkg/infrastructure/messaging"
	redisAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(".", "./config")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	appLogger, err := zapAdapter.NewZapAppLogger("bus-catalog-seatworker", cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, appLogger); err != nil {
		pkgApp.LogError(context.Background(), appLogger, "seat worker failed", err, nil)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger pkgApp.AppLogger) error {
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	client, err := redisAdapter.NewRedisClient(ctx, redisAdapter.ClientOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	pubSub, err := messaging.New(messaging.Options{
		Driver:        cfg.Broker.Driver,
		KafkaBrokers:  cfg.Broker.KafkaBrokers,
		RedisClient:   client,
		ConsumerGroup: cfg.Broker.ConsumerGroup,
		Consumer:      cfg.Broker.Consumer,
		Subscribe:     true,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := pubSub.Close(); err != nil {
			pkgApp.LogError(context.Background(), logger, "error closing broker", err, nil)
		}
	}()

	eventBus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[application.TripCreatedPayload], application.TripCreatedPayload](pubSub.Publisher, pubSub.Subscriber, logger)
	defer eventBus.Close()

	seats := infrastructure.NewRedisSeatInitializer(client, logger)
	eventBus.RegisterHandler(application.TripCreatedEventName, application.NewTripCreatedSeatsHandler(seats, logger))
	if err := eventBus.Subscribe(application.TripCreatedEventName); err != nil {
		return err
	}

	logger.Info(ctx, "seat worker started", map[string]interface{}{
		"broker":         cfg.Broker.Driver,
		"consumer_group": cfg.Broker.ConsumerGroup,
	})

	<-ctx.Done()
	logger.Info(context.Background(), "seat worker stopping", nil)
	return nil
}
