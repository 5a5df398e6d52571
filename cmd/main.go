package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mateusmacedo/bus-catalog/internal/config"
	"github.com/mateusmacedo/bus-catalog/internal/trip"
	"github.com/mateusmacedo/bus-catalog/internal/trip/application"
	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	"github.com/mateusmacedo/bus-catalog/internal/trip/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
	"github.com/mateusmacedo/bus-catalog/pkg/infrastructure/httpserver"
	"github.com/mateusmacedo/bus-catalog/pkg/infrastructure/messaging"
	redisAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".", "./config")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	appLogger, err := zapAdapter.NewZapAppLogger("bus-catalog", cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	repository, err := newRepository(cfg, appLogger)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "error initializing trip store", err, map[string]interface{}{
			"driver": cfg.Store.Driver,
		})
		os.Exit(1)
	}

	seats, closeSeats, err := newSeatInitializer(ctx, cfg, appLogger)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "error initializing seat initializer", err, map[string]interface{}{
			"mode": cfg.Seats.Mode,
		})
		os.Exit(1)
	}
	defer closeSeats()

	tripSlice := trip.NewTripSlice(repository, seats, appLogger)

	router := httpserver.NewRouter(appLogger, cfg.Server.CORSOrigins)
	tripSlice.RegisterRoutes(router)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLogger.Info(ctx, "signal received", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info(ctx, "server starting", map[string]interface{}{
			"addr":       server.Addr,
			"store":      cfg.Store.Driver,
			"seats_mode": cfg.Seats.Mode,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkgApp.LogError(ctx, appLogger, "error starting server", err, nil)
			cancel()
		}
	}()

	<-ctx.Done()
	appLogger.Info(context.Background(), "shutting down server", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		pkgApp.LogError(context.Background(), appLogger, "error shutting down server", err, nil)
	}

	appLogger.Info(context.Background(), "server stopped", nil)
}

func newRepository(cfg *config.Config, logger pkgApp.AppLogger) (domain.TripRepository, error) {
	if cfg.Store.Driver == config.StoreMemory {
		return infrastructure.NewInMemoryTripRepository(logger), nil
	}
	return infrastructure.NewGormTripRepository(cfg.Database.DSN, logger)
}

// newSeatInitializer returns the initializer for the configured mode and a
// function releasing the connections it holds.
func newSeatInitializer(ctx context.Context, cfg *config.Config, logger pkgApp.AppLogger) (domain.SeatInitializer, func(), error) {
	switch cfg.Seats.Mode {
	case config.SeatsEvents:
		if cfg.Broker.Driver == messaging.DriverGoChannel {
			// an in-memory channel cannot reach a seat worker, so the
			// handler runs in this process
			client, err := redisAdapter.NewRedisClient(ctx, redisOptions(cfg))
			if err != nil {
				return nil, nil, err
			}
			return infrastructure.NewInProcessSeatInitializer(infrastructure.NewRedisSeatInitializer(client, logger), logger), func() {
				_ = client.Close()
			}, nil
		}

		opts := messaging.Options{
			Driver:       cfg.Broker.Driver,
			KafkaBrokers: cfg.Broker.KafkaBrokers,
		}
		var closeRedis func() error
		if cfg.Broker.Driver == messaging.DriverRedis {
			client, err := redisAdapter.NewRedisClient(ctx, redisOptions(cfg))
			if err != nil {
				return nil, nil, err
			}
			opts.RedisClient = client
			closeRedis = client.Close
		}

		pubSub, err := messaging.New(opts, logger)
		if err != nil {
			if closeRedis != nil {
				_ = closeRedis()
			}
			return nil, nil, err
		}

		eventBus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[application.TripCreatedPayload], application.TripCreatedPayload](pubSub.Publisher, nil, logger)
		return infrastructure.NewEventSeatInitializer(eventBus), func() {
			_ = eventBus.Close()
			if err := pubSub.Close(); err != nil {
				pkgApp.LogError(context.Background(), logger, "error closing broker", err, nil)
			}
			if closeRedis != nil {
				_ = closeRedis()
			}
		}, nil

	default:
		client, err := redisAdapter.NewRedisClient(ctx, redisOptions(cfg))
		if err != nil {
			return nil, nil, err
		}
		return infrastructure.NewRedisSeatInitializer(client, logger), func() {
			_ = client.Close()
		}, nil
	}
}

func redisOptions(cfg *config.Config) redisAdapter.ClientOptions {
	return redisAdapter.ClientOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}
