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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ytcast/internal/api"
	"github.com/ytcast/internal/cache"
	"github.com/ytcast/internal/config"
	"github.com/ytcast/internal/feed"
	"github.com/ytcast/internal/log"
	"github.com/ytcast/internal/source"
	"github.com/ytcast/internal/youtube"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Configure(log.Config{})
		logger := log.WithComponent("main")
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Configure(log.Config{Level: cfg.LogLevel})
	logger := log.WithComponent("main")
	if envErr != nil {
		logger.Debug().Msg(".env file not found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var health func(context.Context) error
	if rs, ok := store.(*cache.RedisStore); ok {
		health = rs.HealthCheck
	}

	client, err := youtube.NewClient(ctx, youtube.Config{
		APIKey:            cfg.YouTubeAPIKey,
		RequestsPerSecond: cfg.YouTubeRPS,
	})
	if err != nil {
		return err
	}

	resolver := source.NewResolver(client, store, cache.Jitter(cfg.SourceCacheTTL))
	lister := source.NewLister(client)
	builder := feed.NewBuilder(resolver, lister, feed.Options{
		Notifier:   feed.NewHTTPNotifier(&http.Client{}, cfg.NotifyTimeout),
		CacheStore: store,
		CacheTTL:   cfg.FeedCacheTTL,
	})

	server := api.NewServer(resolver, builder, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		HealthCheck:    health,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("cache_backend", cfg.CacheBackend).
			Msg("server starting")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// openStore creates the configured cache backend and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	logger := log.WithComponent("cache")

	switch cfg.CacheBackend {
	case config.BackendRedis:
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, closer(store, logger), nil

	case config.BackendSQLiteCloud:
		store, err := cache.NewSQLiteCloudStore(cfg.DBPath, logger)
		if err != nil {
			return nil, nil, err
		}
		go purgeLoop(ctx, store, time.Hour, logger)
		return store, closer(store, logger), nil

	case config.BackendMemory:
		store := cache.NewMemoryStore(10 * time.Minute)
		return store, store.Stop, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.CacheBackend)
}

func closer(c io.Closer, logger zerolog.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close cache store")
		}
	}
}

// purgeLoop removes expired rows from the SQLite Cloud cache until ctx is done.
func purgeLoop(ctx context.Context, store *cache.SQLiteCloudStore, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := store.Purge(ctx); err != nil {
				logger.Warn().Err(err).Msg("failed to purge expired cache entries")
			}
		case <-ctx.Done():
			return
		}
	}
}
