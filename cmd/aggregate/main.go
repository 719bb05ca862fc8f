// Command aggregate runs one update cycle and exits. Deployments that
// prefer cron-exec over the HTTP trigger point their schedule here.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"trendscope/config"
	"trendscope/internal/adapters"
	"trendscope/internal/aggregator"
	"trendscope/internal/cache"
	"trendscope/internal/db"
	"trendscope/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DSN())
	if err != nil {
		slog.Error("Unable to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		slog.Error("Unable to verify database schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	store := db.NewStore(pool)
	defer store.Close()

	// A one-shot run has no serving replica to invalidate; the shared
	// cache is cleared when configured, an in-process throwaway
	// otherwise.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	var topicCache cache.Cache = cache.NewMemoryCache(ttl)
	if cfg.ValkeyAddress != "" {
		if vc, err := cache.NewValkeyCache(cache.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
			TTL:      ttl,
		}); err == nil {
			topicCache = vc
		} else {
			slog.Warn("Valkey unavailable, cache invalidation will be local only",
				slog.String("error", err.Error()))
		}
	}

	agg := aggregator.New(adapters.All(cfg), store, topicCache, nil, aggregator.Options{
		RetentionDays:   cfg.RetentionDays,
		PerSourceLimit:  cfg.PerSourceLimit,
		TotalLimit:      cfg.TotalLimit,
		InsertChunkSize: cfg.InsertChunkSize,
	})

	agg.UpdateWithFreshData(ctx)
}
