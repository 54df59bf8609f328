package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smartcart/backend/config"
	httpDelivery "github.com/smartcart/backend/internal/delivery/http"
	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/infrastructure/cache"
	"github.com/smartcart/backend/internal/infrastructure/fetch"
	"github.com/smartcart/backend/internal/infrastructure/session"
	"github.com/smartcart/backend/internal/infrastructure/upstream"
	"github.com/smartcart/backend/internal/logger"
	"github.com/smartcart/backend/internal/usecase"
)

const (
	shutdownTimeout      = 10 * time.Second
	cacheCleanupInterval = time.Minute
	sessionSweepInterval = 5 * time.Minute
)

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront API server",
	Long: `Run the storefront API server.

Configuration is read from config.yaml (., ./config, /etc/smartcart/),
a .env file in the working directory, and SMARTCART_* environment variables.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting SmartCart backend",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheRepo, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache.Close()

	fetcher := fetch.NewClient(
		fetch.WithRateLimit(cfg.Fetch.RateLimit, cfg.Fetch.Burst),
		fetch.WithLogger(log.With(zap.String("component", "fetch"))),
	)
	policy := fetch.RetryPolicy{
		Retries:      cfg.Fetch.Retries,
		InitialDelay: cfg.Fetch.InitialDelay,
		Timeout:      cfg.Fetch.Timeout,
	}
	if cfg.Upstream.APIKey == "" {
		log.Warn("upstream API key not configured; meal recommendations may be rejected")
	}
	storefront := upstream.NewClient(fetcher, upstream.Config{
		BaseURL:     cfg.Upstream.BaseURL,
		APIKey:      cfg.Upstream.APIKey,
		CatalogPath: cfg.Upstream.CatalogPath,
		OffersPath:  cfg.Upstream.OffersPath,
		MealsPath:   cfg.Upstream.MealsPath,
	}, policy, log)

	store := session.NewMemoryStore()
	go store.Run(ctx, sessionSweepInterval)

	catalog := usecase.NewCatalogService(cacheRepo, storefront, usecase.CatalogServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	}, log)
	sessions := usecase.NewSessionService(store, store, catalog, usecase.SessionServiceConfig{
		SessionTTL: cfg.Session.TTL,
	}, log)
	meals := usecase.NewMealService(storefront, store, usecase.MealServiceConfig{
		Debounce: cfg.Session.MealDebounce,
	}, log)

	handler := httpDelivery.NewHandler(catalog, sessions, meals, log)
	router := httpDelivery.SetupRouter(cfg, handler, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newCache builds the configured cache backend
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, io.Closer, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, "smartcart:")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisCache, redisCache, nil
	default:
		memoryCache := cache.NewMemoryCache(cacheCleanupInterval)
		return memoryCache, memoryCache, nil
	}
}
