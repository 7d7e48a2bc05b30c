package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/basket-service/api/controllers"
	"github.com/angelmondragon/basket-service/api/routes"
	basketsvc "github.com/angelmondragon/basket-service/internal/basket"
	checkoutsvc "github.com/angelmondragon/basket-service/internal/checkout"
	"github.com/angelmondragon/basket-service/internal/discount"
	"github.com/angelmondragon/basket-service/pkg/config"
	"github.com/angelmondragon/basket-service/pkg/db"
	"github.com/angelmondragon/basket-service/pkg/eventbus"
	"github.com/angelmondragon/basket-service/pkg/logger"
	"github.com/angelmondragon/basket-service/pkg/metrics"
	"github.com/angelmondragon/basket-service/pkg/migrate"
	"github.com/angelmondragon/basket-service/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "basket-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "basket-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()
	var closers []func() error

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	closers = append(closers, redisClient.Close)

	registry := prometheus.NewRegistry()
	repoMetrics := metrics.NewRepositoryMetrics(registry)
	cacheMetrics := metrics.NewCacheMetrics(registry)

	readiness := map[string]controllers.Pinger{
		"redis": redisClient,
	}

	// The store adapter plus the decorator chain. Metrics sits closest to
	// the store so cache hits never skew the store latency histogram, and
	// caching sits outermost so hits short-circuit the whole chain.
	var store basketsvc.Repository
	switch cfg.Basket.StorageDriver {
	case config.StorageDriverPostgres:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient.Close)
		readiness["postgres"] = dbClient

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			logg.Error(ctx, "failed to run dev migrations", err)
			os.Exit(1)
		}

		store, err = basketsvc.NewStoreRepository(dbClient.DB())
		if err != nil {
			logg.Error(ctx, "failed to create store repository", err)
			os.Exit(1)
		}
	case config.StorageDriverRedis:
		store, err = basketsvc.NewRedisRepository(redisClient, cfg.Basket.RedisTTL)
		if err != nil {
			logg.Error(ctx, "failed to create redis repository", err)
			os.Exit(1)
		}
	default:
		logg.Error(ctx, "unknown storage driver", fmt.Errorf("unsupported storage driver %q", cfg.Basket.StorageDriver))
		os.Exit(1)
	}

	metricsRepo, err := basketsvc.NewMetricsRepository(store, repoMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create metrics repository", err)
		os.Exit(1)
	}
	loggingRepo, err := basketsvc.NewLoggingRepository(metricsRepo, logg)
	if err != nil {
		logg.Error(ctx, "failed to create logging repository", err)
		os.Exit(1)
	}
	var repo basketsvc.Repository = loggingRepo
	if cfg.Basket.StorageDriver == config.StorageDriverPostgres {
		repo, err = basketsvc.NewCachingRepository(loggingRepo, redisClient, cfg.Basket.CacheTTL, logg, cacheMetrics)
		if err != nil {
			logg.Error(ctx, "failed to create caching repository", err)
			os.Exit(1)
		}
	}

	var discounts discount.Lookup
	if cfg.Discount.BaseURL != "" {
		discounts, err = discount.NewHTTPClient(cfg.Discount, logg)
		if err != nil {
			logg.Error(ctx, "failed to create discount client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "no discount service configured, using static lookup")
		discounts = discount.NewStaticLookup(nil)
	}

	publisher, err := eventbus.New(ctx, cfg.GCP, cfg.Eventing, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap event publisher", err)
		os.Exit(1)
	}
	closers = append(closers, publisher.Close)
	readiness["eventbus"] = publisher

	basketService, err := basketsvc.NewService(repo, discounts, logg)
	if err != nil {
		logg.Error(ctx, "failed to create basket service", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(repo, publisher, logg)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"storage_driver": cfg.Basket.StorageDriver,
	})
	logg.Info(ctx, "starting basket api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, registry, readiness, basketService, checkoutService),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	for _, closer := range closers {
		closeErr = multierr.Append(closeErr, closer())
	}
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "basket api server stopped")
}
