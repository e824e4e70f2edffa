package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-api/internal/cache"
	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/logging"
	"catalog-api/internal/realtime"
	"catalog-api/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logCloser, err := logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
		File:   cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", cfg.Port, err)
	}
	return serve(ctx, cfg, ln, logger)
}

// serve runs the API on ln until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, cfg config.Config, ln net.Listener, logger zerolog.Logger) error {
	// Init database
	db, err := database.Open(cfg.DB, cfg.Log.Level, logging.NewLogger("database"))
	if err != nil {
		ln.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	responseCache, closeCache, err := buildCache(ctx, cfg.Cache, logger)
	if err != nil {
		ln.Close()
		return fmt.Errorf("failed to set up response cache: %w", err)
	}
	defer closeCache()

	router := routes.SetupRoutes(routes.Deps{
		Provider:   database.NewProvider(db),
		Cache:      responseCache,
		Hub:        realtime.NewHub(logging.NewLogger("realtime")),
		Logger:     logging.NewLogger("http"),
		Production: cfg.IsProduction(),
	})

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", ln.Addr().String()).
			Str("env", cfg.Environment).
			Bool("cache", cfg.Cache.Enabled).
			Str("cache_backend", cfg.Cache.Backend).
			Dur("cache_ttl", cfg.Cache.TTL).
			Msg("server starting")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// buildCache returns nil when caching is disabled.
func buildCache(ctx context.Context, cfg config.CacheConfig, logger zerolog.Logger) (*cache.ResponseCache, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}

	cacheLogger := logging.NewLogger("cache")
	switch cfg.Backend {
	case config.BackendRedis:
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cacheLogger)
		if err != nil {
			return nil, nil, err
		}
		// Generations restart at zero; entries left by a previous process
		// would otherwise be reachable again.
		if err := store.Clear(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to clear response cache on startup")
		}
		closeFn := func() { _ = store.Close() }
		return cache.NewResponseCache(store, cfg.TTL, cacheLogger), closeFn, nil
	default:
		store := cache.NewMemoryStore()
		store.StartJanitor(ctx, cfg.CheckPeriod)
		return cache.NewResponseCache(store, cfg.TTL, cacheLogger), func() {}, nil
	}
}
