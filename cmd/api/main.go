package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pharmadist/pricing-engine/api/routes"
	"github.com/pharmadist/pricing-engine/internal/catalog"
	"github.com/pharmadist/pricing-engine/internal/customers"
	"github.com/pharmadist/pricing-engine/internal/overrides"
	"github.com/pharmadist/pricing-engine/internal/pricing"
	"github.com/pharmadist/pricing-engine/internal/promotions"
	"github.com/pharmadist/pricing-engine/internal/rules"
	"github.com/pharmadist/pricing-engine/pkg/config"
	"github.com/pharmadist/pricing-engine/pkg/db"
	"github.com/pharmadist/pricing-engine/pkg/logger"
	"github.com/pharmadist/pricing-engine/pkg/metrics"
	"github.com/pharmadist/pricing-engine/pkg/migrate"
	"github.com/pharmadist/pricing-engine/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pricing-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pricing-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(registry)

	conn := dbClient.DB()
	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	customersSvc, err := customers.NewService(customers.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}
	resolver, err := overrides.NewResolver(overrides.NewRepository(conn), catalogSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create override resolver", err)
		os.Exit(1)
	}
	selector, err := rules.NewSelector(rules.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create rule selector", err)
		os.Exit(1)
	}
	promotionsSvc, err := promotions.NewService(promotions.NewRepository(conn), customersSvc, dbClient, cfg.Promotions, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotion service", err)
		os.Exit(1)
	}
	pricingSvc, err := pricing.NewService(catalogSvc, customersSvc, resolver, selector, promotionsSvc, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting pricing api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, pricingSvc, promotionsSvc, registry),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
