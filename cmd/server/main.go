package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendscope/config"
	"trendscope/internal/adapters"
	"trendscope/internal/aggregator"
	"trendscope/internal/archive"
	"trendscope/internal/cache"
	"trendscope/internal/db"
	"trendscope/internal/events"
	"trendscope/internal/logging"
	"trendscope/internal/server"
	"trendscope/internal/service"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.FromEnv()
	ctx := context.Background()

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

	topicCache := buildCache(cfg)
	sinks := buildSinks(ctx, cfg)

	agg := aggregator.New(adapters.All(cfg), store, topicCache, sinks, aggregator.Options{
		RetentionDays:   cfg.RetentionDays,
		PerSourceLimit:  cfg.PerSourceLimit,
		TotalLimit:      cfg.TotalLimit,
		InsertChunkSize: cfg.InsertChunkSize,
	})
	svc := service.New(store, topicCache, cfg.RetentionDays)
	srv := server.New(svc, agg, cfg.AuthToken)

	go func() {
		if err := srv.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("Server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()
	slog.Info("Server listening", slog.String("addr", cfg.ServerAddr))

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	slog.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Shutdown did not complete cleanly", slog.String("error", err.Error()))
	}
}

func buildCache(cfg config.Config) cache.Cache {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second

	if cfg.ValkeyAddress != "" {
		vc, err := cache.NewValkeyCache(cache.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
			TTL:      ttl,
		})
		if err == nil {
			return vc
		}
		slog.Warn("Valkey unavailable, falling back to in-process cache",
			slog.String("error", err.Error()))
	}
	return cache.NewMemoryCache(ttl)
}

func buildSinks(ctx context.Context, cfg config.Config) []aggregator.Sink {
	var sinks []aggregator.Sink

	if cfg.KafkaBroker != "" {
		publisher, err := events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		if err != nil {
			slog.Warn("Kafka unavailable, topic events disabled",
				slog.String("error", err.Error()))
		} else {
			sinks = append(sinks, publisher)
		}
	}

	if cfg.DynamoArchiveTable != "" {
		arc, err := archive.NewDynamoArchive(ctx, cfg.DynamoArchiveTable, cfg.DynamoArchiveTTL)
		if err != nil {
			slog.Warn("DynamoDB unavailable, archive disabled",
				slog.String("error", err.Error()))
		} else {
			sinks = append(sinks, arc)
		}
	}

	return sinks
}
