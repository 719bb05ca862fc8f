package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"trendscope/internal/adapters"
	"trendscope/internal/cache"
	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

// Store is the slice of the database layer the aggregator writes to.
type Store interface {
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
	InsertTopics(ctx context.Context, topics []models.TrendingTopic, chunkSize int) int
}

// Sink receives the fresh batch after a successful insert. Sinks are
// best-effort: they log their own failures and never fail the cycle.
type Sink interface {
	Publish(ctx context.Context, topics []models.TrendingTopic)
}

type Options struct {
	RetentionDays   int
	PerSourceLimit  int
	TotalLimit      int
	InsertChunkSize int
}

// Aggregator runs the upsert cycle: fan out to every adapter, coerce,
// cap, dedupe, evict stale rows, insert fresh ones, invalidate the
// cache. It never returns an error; the scheduler only observes logs
// and eventual store state.
type Aggregator struct {
	adapters []adapters.Adapter
	store    Store
	cache    cache.Cache
	sinks    []Sink
	opts     Options
}

func New(adapterList []adapters.Adapter, store Store, c cache.Cache, sinks []Sink, opts Options) *Aggregator {
	return &Aggregator{
		adapters: adapterList,
		store:    store,
		cache:    c,
		sinks:    sinks,
		opts:     opts,
	}
}

// UpdateWithFreshData executes one full aggregation cycle.
func (a *Aggregator) UpdateWithFreshData(ctx context.Context) {
	started := time.Now()
	slog.Info("[Aggregator] Starting update cycle",
		slog.Int("adapters", len(a.adapters)))

	results := a.fetchAll(ctx)
	batch := a.normalize(results)

	// Eviction runs before insert so a cycle that fetches nothing
	// still shrinks the store.
	deleted, err := a.store.DeleteOlderThan(ctx, a.opts.RetentionDays)
	if err != nil {
		slog.Warn("[Aggregator] Failed to evict stale rows",
			slog.String("error", err.Error()))
	}

	inserted := a.store.InsertTopics(ctx, batch, a.opts.InsertChunkSize)

	if inserted > 0 {
		// Full clear: freshness beats hit-rate.
		a.cache.Clear(ctx)
		for _, sink := range a.sinks {
			sink.Publish(ctx, batch)
		}
	}

	slog.Info("[Aggregator] Update cycle finished",
		slog.Int("fetched", totalFetched(results)),
		slog.Int("batch", len(batch)),
		slog.Int("inserted", inserted),
		slog.Int64("evicted", deleted),
		slog.Duration("took", time.Since(started)))
}

// fetchAll fans out to every adapter concurrently with a
// failure-isolating join: every adapter's outcome is observed, and a
// panicking adapter only loses its own contribution.
func (a *Aggregator) fetchAll(ctx context.Context) [][]models.RawTopic {
	results := make([][]models.RawTopic, len(a.adapters))

	var wg sync.WaitGroup
	for i, adapter := range a.adapters {
		wg.Add(1)
		go func(i int, adapter adapters.Adapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("[Aggregator] Adapter panicked, skipping its results",
						slog.String("platform", string(adapter.Platform())),
						slog.Any("panic", r))
				}
			}()
			results[i] = adapter.FetchTrendingTopics(ctx)
		}(i, adapter)
	}
	wg.Wait()

	return results
}

// normalize coerces every RawTopic against the taxonomy, caps each
// source's contribution, dedupes across sources on
// (platform, title, url), and caps the merged batch.
func (a *Aggregator) normalize(results [][]models.RawTopic) []models.TrendingTopic {
	now := time.Now().UTC()
	seen := make(map[[3]string]bool)
	var batch []models.TrendingTopic

	for _, raw := range results {
		if len(raw) > a.opts.PerSourceLimit {
			raw = raw[:a.opts.PerSourceLimit]
		}

		for _, item := range raw {
			taxonomy.ApplyPostProcess(&item)

			platform, _ := taxonomy.CoercePlatform(item.Platform)
			if platform == "" {
				// Nothing to key filtering or stats on; the only case
				// where an item is dropped.
				slog.Warn("[Aggregator] Dropping item with empty platform",
					slog.String("title", item.Title))
				continue
			}
			topic := taxonomy.CoerceTopic(item.Topic)

			key := [3]string{platform, item.Title, item.URL}
			if seen[key] {
				continue
			}
			seen[key] = true

			batch = append(batch, models.TrendingTopic{
				ID:          uuid.NewString(),
				Platform:    platform,
				Title:       item.Title,
				Description: item.Description,
				URL:         item.URL,
				Score:       item.Score,
				Engagement:  item.Engagement,
				Category:    item.Category,
				Topic:       string(topic),
				Tags:        item.Tags,
				Author:      item.Author,
				Timestamp:   item.Timestamp,
				CreatedAt:   now,
			})
		}
	}

	if len(batch) > a.opts.TotalLimit {
		batch = batch[:a.opts.TotalLimit]
	}
	return batch
}

func totalFetched(results [][]models.RawTopic) int {
	total := 0
	for _, r := range results {
		total += len(r)
	}
	return total
}
