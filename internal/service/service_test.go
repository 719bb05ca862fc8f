package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendscope/internal/cache"
	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

type fakeStore struct {
	topics     []models.TrendingTopic
	queryCalls int
	totalCalls int
	failAll    bool
}

func (f *fakeStore) QueryTopics(_ context.Context, sortBy, sortOrder string, limit, offset, _ int) ([]models.TrendingTopic, error) {
	f.queryCalls++
	if f.failAll {
		return nil, errors.New("relation does not exist")
	}

	out := append([]models.TrendingTopic(nil), f.topics...)
	switch sortBy {
	case SortByEngagement:
		sort.SliceStable(out, func(i, j int) bool {
			if sortOrder == "asc" {
				return out[i].Engagement < out[j].Engagement
			}
			return out[i].Engagement > out[j].Engagement
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) PlatformStats(context.Context, int) (map[string]int64, error) {
	if f.failAll {
		return nil, errors.New("relation does not exist")
	}
	return map[string]int64{"reddit": 3}, nil
}

func (f *fakeStore) TopicStats(context.Context, int) (map[string]int64, error) {
	if f.failAll {
		return nil, errors.New("relation does not exist")
	}
	return map[string]int64{"crypto": 2}, nil
}

func (f *fakeStore) TotalCount(context.Context) (int64, error) {
	f.totalCalls++
	if f.failAll {
		return 0, errors.New("relation does not exist")
	}
	return int64(len(f.topics)), nil
}

func (f *fakeStore) CountWithinWindow(context.Context, int) (int64, error) {
	if f.failAll {
		return 0, errors.New("relation does not exist")
	}
	return int64(len(f.topics)), nil
}

func (f *fakeStore) CountOlderThan(context.Context, int) (int64, error) {
	return 2, nil
}

func (f *fakeStore) DeleteOlderThan(context.Context, int) (int64, error) {
	return 2, nil
}

func (f *fakeStore) LastUpdated(context.Context) (time.Time, error) {
	if len(f.topics) == 0 {
		return time.Time{}, nil
	}
	return f.topics[0].CreatedAt, nil
}

func storeWithTopics(n int) *fakeStore {
	now := time.Now().UTC()
	topics := make([]models.TrendingTopic, n)
	for i := range topics {
		topics[i] = models.TrendingTopic{
			ID:         fmt.Sprintf("id-%d", i),
			Platform:   "reddit",
			Title:      fmt.Sprintf("topic %d", i),
			URL:        fmt.Sprintf("https://example.com/%d", i),
			Engagement: float64(i * 10),
			Timestamp:  now.Add(-time.Duration(i) * time.Hour),
			CreatedAt:  now.Add(-time.Duration(i) * time.Minute),
		}
	}
	return &fakeStore{topics: topics}
}

func newService(store *fakeStore) (*Service, *cache.MemoryCache) {
	c := cache.NewMemoryCache(15 * time.Minute)
	return New(store, c, 7), c
}

func TestFetchTrendingTopics_EngagementDesc(t *testing.T) {
	svc, _ := newService(storeWithTopics(15))

	topics := svc.FetchTrendingTopics(context.Background(), SortByEngagement, "desc", 10, 0)
	require.Len(t, topics, 10)
	for i := 1; i < len(topics); i++ {
		assert.GreaterOrEqual(t, topics[i-1].Engagement, topics[i].Engagement,
			"engagement must be non-increasing")
	}
}

func TestFetchTrendingTopics_CacheHitSkipsStore(t *testing.T) {
	store := storeWithTopics(5)
	svc, _ := newService(store)
	ctx := context.Background()

	first := svc.FetchTrendingTopics(ctx, SortByEngagement, "desc", 5, 0)
	require.Len(t, first, 5)
	assert.Equal(t, 1, store.queryCalls)

	// Second read is served from cache, re-sorted in memory.
	second := svc.FetchTrendingTopics(ctx, SortByEngagement, "asc", 5, 0)
	require.Len(t, second, 5)
	assert.Equal(t, 1, store.queryCalls, "cache hit must not re-query storage")
	for i := 1; i < len(second); i++ {
		assert.LessOrEqual(t, second[i-1].Engagement, second[i].Engagement)
	}
}

func TestFetchTrendingTopics_OffsetBypassesCache(t *testing.T) {
	store := storeWithTopics(30)
	svc, c := newService(store)
	ctx := context.Background()

	svc.FetchTrendingTopics(ctx, SortByEngagement, "desc", 10, 10)
	assert.Equal(t, 1, store.queryCalls)

	// Offset pages are never cached under the first-page key.
	var cached []models.TrendingTopic
	assert.False(t, c.Get(ctx, firstPageCacheKey, &cached))
}

func TestFetchTrendingTopics_StorageFailureServesEmpty(t *testing.T) {
	svc, _ := newService(&fakeStore{failAll: true})

	topics := svc.FetchTrendingTopics(context.Background(), SortByTimestamp, "desc", 10, 0)
	assert.NotNil(t, topics)
	assert.Empty(t, topics)
}

func TestFetchTrendingTopics_RandomReturnsFullPage(t *testing.T) {
	svc, _ := newService(storeWithTopics(15))

	topics := svc.FetchTrendingTopics(context.Background(), SortByRandom, "desc", 10, 0)
	assert.Len(t, topics, 10)

	seen := make(map[string]bool)
	for _, topic := range topics {
		assert.False(t, seen[topic.ID], "shuffle must not duplicate rows")
		seen[topic.ID] = true
	}
}

func TestGetStats_ZeroFillsAllEnumMembers(t *testing.T) {
	svc, _ := newService(storeWithTopics(3))

	stats := svc.GetStats(context.Background())

	assert.Len(t, stats.PlatformStats, len(taxonomy.AllPlatforms))
	for _, p := range taxonomy.AllPlatforms {
		_, ok := stats.PlatformStats[string(p)]
		assert.True(t, ok, "platform %s missing from stats", p)
	}
	assert.Equal(t, int64(3), stats.PlatformStats["reddit"])
	assert.Equal(t, int64(0), stats.PlatformStats["binance"])

	assert.Len(t, stats.TopicStats, len(taxonomy.AllTopics))
	assert.Equal(t, int64(2), stats.TopicStats["crypto"])
	assert.Equal(t, int64(0), stats.TopicStats["memes"])
}

func TestGetStats_StorageFailureStaysZeroFilled(t *testing.T) {
	svc, _ := newService(&fakeStore{failAll: true})

	stats := svc.GetStats(context.Background())
	assert.Equal(t, int64(0), stats.TotalTopics)
	assert.Len(t, stats.PlatformStats, len(taxonomy.AllPlatforms))
	assert.Len(t, stats.TopicStats, len(taxonomy.AllTopics))
}

func TestGetTotalTopicsCount_NeverCached(t *testing.T) {
	store := storeWithTopics(8)
	svc, _ := newService(store)
	ctx := context.Background()

	first := svc.GetTotalTopicsCount(ctx)
	second := svc.GetTotalTopicsCount(ctx)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, store.totalCalls, "both calls must hit storage")
}

func TestCleanupOldData_ReturnsCountedRows(t *testing.T) {
	svc, _ := newService(storeWithTopics(5))

	result, err := svc.CleanupOldData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.DeletedCount)
}

func TestGetDatabaseSize(t *testing.T) {
	svc, _ := newService(storeWithTopics(5))

	size := svc.GetDatabaseSize(context.Background())
	assert.Equal(t, int64(5), size.TotalRecords)
	assert.Equal(t, int64(2), size.OldRecords)
	assert.Equal(t, 7, size.RetentionDays)
}
