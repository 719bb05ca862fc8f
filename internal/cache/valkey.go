package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyCache is the shared-cache variant of Cache for multi-replica
// deployments. It keeps the same TTL semantics as MemoryCache but lets
// Valkey expire entries server-side. Clear with no keys flushes the
// selected DB, so the instance must have a database to itself.
type ValkeyCache struct {
	mu     sync.Mutex
	client valkey.Client
	opts   valkey.ClientOption
	ttl    time.Duration
}

var _ Cache = (*ValkeyCache)(nil)

type ValkeyOptions struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

func NewValkeyCache(o ValkeyOptions) (*ValkeyCache, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{o.Address},
		Password:         o.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if o.UseTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyCache] failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if res := client.Do(ctx, client.B().Ping().Build()); res.Error() != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyCache] failed to ping: %w", res.Error())
	}

	slog.Info("[ValkeyCache] Successfully connected to valkey")
	return &ValkeyCache{client: client, opts: opts, ttl: o.TTL}, nil
}

func (c *ValkeyCache) Close() {
	c.client.Close()
}

func (c *ValkeyCache) Get(ctx context.Context, key string, dest any) bool {
	res := c.doWithRetry(ctx, c.client.B().Get().Key(key).Build(), 3)
	if res.Error() != nil {
		return false
	}

	payload, err := res.AsBytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		slog.Warn("[ValkeyCache] Failed to unmarshal cached payload",
			slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *ValkeyCache) Set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		slog.Warn("[ValkeyCache] Failed to marshal payload, skipping set",
			slog.String("key", key), slog.String("error", err.Error()))
		return
	}

	cmd := c.client.B().Set().Key(key).Value(string(payload)).
		Ex(c.ttl).Build()
	if res := c.doWithRetry(ctx, cmd, 3); res.Error() != nil {
		slog.Warn("[ValkeyCache] Set failed",
			slog.String("key", key), slog.String("error", res.Error().Error()))
	}
}

func (c *ValkeyCache) Clear(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		if res := c.doWithRetry(ctx, c.client.B().Flushdb().Build(), 3); res.Error() != nil {
			slog.Warn("[ValkeyCache] Flush failed",
				slog.String("error", res.Error().Error()))
		}
		return
	}

	if res := c.doWithRetry(ctx, c.client.B().Del().Key(keys...).Build(), 3); res.Error() != nil {
		slog.Warn("[ValkeyCache] Del failed",
			slog.String("error", res.Error().Error()))
	}
}

func (c *ValkeyCache) doWithRetry(ctx context.Context, cmd valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = c.client.Do(ctx, cmd)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyCache] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		if isConnectionError(result.Error()) {
			c.recreateClient()
		}
		time.Sleep(250 * time.Millisecond)
	}
	return result
}

func (c *ValkeyCache) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyCache] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Warn("[ValkeyCache] Attempting to recreate valkey client...")
	c.client.Close()

	client, err := valkey.NewClient(c.opts)
	if err != nil {
		panic(fmt.Errorf("[ValkeyCache] failed to recreate client: %w", err))
	}
	c.client = client
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
