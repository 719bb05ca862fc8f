package service

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"trendscope/internal/cache"
	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const (
	SortByEngagement = "engagement"
	SortByTimestamp  = "timestamp"
	SortByRandom     = "random"

	firstPageCacheKey = "topics:firstpage"
)

// Store is the slice of the database layer the read path consults.
type Store interface {
	QueryTopics(ctx context.Context, sortBy, sortOrder string, limit, offset, retentionDays int) ([]models.TrendingTopic, error)
	PlatformStats(ctx context.Context, days int) (map[string]int64, error)
	TopicStats(ctx context.Context, days int) (map[string]int64, error)
	TotalCount(ctx context.Context) (int64, error)
	CountWithinWindow(ctx context.Context, days int) (int64, error)
	CountOlderThan(ctx context.Context, days int) (int64, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
	LastUpdated(ctx context.Context) (time.Time, error)
}

// Service serves topic listings and aggregate counts, consulting the
// cache before the store. Every method degrades to an empty or zero
// result on storage failure; the read surface serves "no data", it
// does not crash.
type Service struct {
	store         Store
	cache         cache.Cache
	retentionDays int
}

func New(store Store, c cache.Cache, retentionDays int) *Service {
	return &Service{store: store, cache: c, retentionDays: retentionDays}
}

// FetchTrendingTopics returns a sorted page of topics inside the
// retention window. The first page is cached under a fixed key; on a
// hit the sort is applied in memory without touching the store.
// Random sort always reshuffles, cached or not.
func (s *Service) FetchTrendingTopics(ctx context.Context, sortBy, sortOrder string, limit, offset int) []models.TrendingTopic {
	if limit <= 0 {
		limit = 20
	}

	if offset == 0 {
		var cached []models.TrendingTopic
		if s.cache.Get(ctx, firstPageCacheKey, &cached) {
			sortTopics(cached, sortBy, sortOrder)
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached
		}
	}

	// Random sort pages from a stable timestamp-ordered base, then
	// shuffles in memory.
	storeSort := sortBy
	if sortBy == SortByRandom {
		storeSort = ""
	}

	topics, err := s.store.QueryTopics(ctx, storeSort, sortOrder, limit, offset, s.retentionDays)
	if err != nil {
		slog.Error("[Service] Failed to query topics, serving empty result",
			slog.String("error", err.Error()))
		return []models.TrendingTopic{}
	}

	// Cache only the first page; arbitrary pagination windows would
	// otherwise alias under one key.
	if offset == 0 {
		s.cache.Set(ctx, firstPageCacheKey, topics)
	}

	if sortBy == SortByRandom {
		shuffle(topics)
	}

	if topics == nil {
		topics = []models.TrendingTopic{}
	}
	return topics
}

// GetStats returns windowed counts, zero-filled across every Platform
// and Topic enum member; the dashboard indexes by the full key set.
func (s *Service) GetStats(ctx context.Context) models.Stats {
	stats := models.Stats{
		PlatformStats: make(map[string]int64, len(taxonomy.AllPlatforms)),
		TopicStats:    make(map[string]int64, len(taxonomy.AllTopics)),
	}
	for _, p := range taxonomy.AllPlatforms {
		stats.PlatformStats[string(p)] = 0
	}
	for _, t := range taxonomy.AllTopics {
		stats.TopicStats[string(t)] = 0
	}

	if windowed, err := s.store.CountWithinWindow(ctx, s.retentionDays); err == nil {
		stats.TotalTopics = windowed
	} else {
		slog.Warn("[Service] Failed to count windowed topics",
			slog.String("error", err.Error()))
	}

	if total, err := s.store.TotalCount(ctx); err == nil {
		stats.AllTimeTopics = total
	} else {
		slog.Warn("[Service] Failed to count all topics",
			slog.String("error", err.Error()))
	}

	if platformCounts, err := s.store.PlatformStats(ctx, s.retentionDays); err == nil {
		for platform, count := range platformCounts {
			stats.PlatformStats[platform] = count
		}
	} else {
		slog.Warn("[Service] Failed to fetch platform stats",
			slog.String("error", err.Error()))
	}

	if topicCounts, err := s.store.TopicStats(ctx, s.retentionDays); err == nil {
		for topic, count := range topicCounts {
			stats.TopicStats[topic] = count
		}
	} else {
		slog.Warn("[Service] Failed to fetch topic stats",
			slog.String("error", err.Error()))
	}

	return stats
}

// GetTotalTopicsCount returns the unwindowed row count. Deliberately
// uncached: it backs an admin view that wants live numbers.
func (s *Service) GetTotalTopicsCount(ctx context.Context) int64 {
	count, err := s.store.TotalCount(ctx)
	if err != nil {
		slog.Warn("[Service] Failed to count topics",
			slog.String("error", err.Error()))
		return 0
	}
	return count
}

// GetLastUpdated reports the newest row's creation time, zero when
// the store is empty or unavailable.
func (s *Service) GetLastUpdated(ctx context.Context) time.Time {
	last, err := s.store.LastUpdated(ctx)
	if err != nil {
		slog.Warn("[Service] Failed to fetch last update time",
			slog.String("error", err.Error()))
		return time.Time{}
	}
	return last
}

// CleanupOldData counts rows past the retention cutoff, deletes them,
// and returns the counted number.
func (s *Service) CleanupOldData(ctx context.Context) (models.CleanupResult, error) {
	count, err := s.store.CountOlderThan(ctx, s.retentionDays)
	if err != nil {
		return models.CleanupResult{}, err
	}

	if _, err := s.store.DeleteOlderThan(ctx, s.retentionDays); err != nil {
		return models.CleanupResult{}, err
	}

	slog.Info("[Service] Cleanup finished",
		slog.Int64("deleted", count))
	return models.CleanupResult{DeletedCount: count}, nil
}

// GetDatabaseSize reports store footprint; no deletion.
func (s *Service) GetDatabaseSize(ctx context.Context) models.DatabaseSize {
	size := models.DatabaseSize{RetentionDays: s.retentionDays}

	if total, err := s.store.TotalCount(ctx); err == nil {
		size.TotalRecords = total
	} else {
		slog.Warn("[Service] Failed to count total records",
			slog.String("error", err.Error()))
	}

	if old, err := s.store.CountOlderThan(ctx, s.retentionDays); err == nil {
		size.OldRecords = old
	} else {
		slog.Warn("[Service] Failed to count old records",
			slog.String("error", err.Error()))
	}

	return size
}

func sortTopics(topics []models.TrendingTopic, sortBy, sortOrder string) {
	asc := sortOrder == "asc"

	switch sortBy {
	case SortByEngagement:
		sort.SliceStable(topics, func(i, j int) bool {
			if asc {
				return topics[i].Engagement < topics[j].Engagement
			}
			return topics[i].Engagement > topics[j].Engagement
		})
	case SortByTimestamp:
		sort.SliceStable(topics, func(i, j int) bool {
			if asc {
				return topics[i].Timestamp.Before(topics[j].Timestamp)
			}
			return topics[i].Timestamp.After(topics[j].Timestamp)
		})
	case SortByRandom:
		shuffle(topics)
	}
}

// Fisher–Yates.
func shuffle(topics []models.TrendingTopic) {
	for i := len(topics) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		topics[i], topics[j] = topics[j], topics[i]
	}
}
