package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendscope/internal/models"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewStore(mock)
}

func sampleTopics(n int) []models.TrendingTopic {
	now := time.Now().UTC()
	topics := make([]models.TrendingTopic, n)
	for i := range topics {
		topics[i] = models.TrendingTopic{
			ID:         string(rune('a' + i)),
			Platform:   "reddit",
			Title:      "topic " + string(rune('a'+i)),
			URL:        "https://example.com/" + string(rune('a'+i)),
			Score:      float64(i),
			Engagement: float64(i * 2),
			Topic:      "general",
			Tags:       []string{"t"},
			Timestamp:  now,
			CreatedAt:  now,
		}
	}
	return topics
}

func TestInsertTopics_SingleChunk(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectExec("INSERT INTO trending_topics").
		WillReturnResult(pgxmock.NewResult("INSERT", 3))

	inserted := store.InsertTopics(context.Background(), sampleTopics(3), 50)
	assert.Equal(t, 3, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertTopics_ChunksBatches(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectExec("INSERT INTO trending_topics").
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectExec("INSERT INTO trending_topics").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted := store.InsertTopics(context.Background(), sampleTopics(3), 2)
	assert.Equal(t, 3, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertTopics_ConflictFallsBackToPerRow(t *testing.T) {
	mock, store := newMockStore(t)
	topics := sampleTopics(2)

	mock.ExpectExec("INSERT INTO trending_topics").
		WillReturnError(errors.New(`duplicate key value violates unique constraint "trending_topics_platform_title_url_key"`))

	for _, topic := range topics {
		mock.ExpectExec("DELETE FROM trending_topics WHERE platform").
			WithArgs(topic.Platform, topic.Title).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec("INSERT INTO trending_topics").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	inserted := store.InsertTopics(context.Background(), topics, 50)
	assert.Equal(t, 2, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertTopics_RowFailureDoesNotAbortRest(t *testing.T) {
	mock, store := newMockStore(t)
	topics := sampleTopics(2)

	mock.ExpectExec("INSERT INTO trending_topics").
		WillReturnError(errors.New("duplicate key value"))

	mock.ExpectExec("DELETE FROM trending_topics WHERE platform").
		WithArgs(topics[0].Platform, topics[0].Title).
		WillReturnError(errors.New("connection reset"))

	mock.ExpectExec("DELETE FROM trending_topics WHERE platform").
		WithArgs(topics[1].Platform, topics[1].Title).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO trending_topics").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted := store.InsertTopics(context.Background(), topics, 50)
	assert.Equal(t, 1, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertTopics_EmptyBatch(t *testing.T) {
	_, store := newMockStore(t)
	assert.Equal(t, 0, store.InsertTopics(context.Background(), nil, 50))
}

func TestDeleteOlderThan(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectExec("DELETE FROM trending_topics WHERE created_at").
		WithArgs(7).
		WillReturnResult(pgxmock.NewResult("DELETE", 12))

	deleted, err := store.DeleteOlderThan(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounts(t *testing.T) {
	mock, store := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trending_topics WHERE created_at <`).
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))
	old, err := store.CountOlderThan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), old)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trending_topics WHERE created_at >`).
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(40)))
	windowed, err := store.CountWithinWindow(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(40), windowed)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trending_topics`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(44)))
	total, err := store.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(44), total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryTopics_ScansRows(t *testing.T) {
	mock, store := newMockStore(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "platform", "title", "description", "url", "score",
		"engagement", "category", "topic", "tags", "author", "timestamp", "created_at",
	}).AddRow(
		"id-1", "reddit", "a title", "desc", "https://example.com/1",
		float64(10), float64(20), "programming", "programming",
		[]string{"reddit"}, "someone", now, now,
	)

	mock.ExpectQuery("FROM trending_topics").
		WithArgs(7, 20, 0).
		WillReturnRows(rows)

	topics, err := store.QueryTopics(context.Background(), "engagement", "desc", 20, 0, 7)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "id-1", topics[0].ID)
	assert.Equal(t, float64(20), topics[0].Engagement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupedStats(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM get_platform_stats`).
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"platform", "count"}).
			AddRow("reddit", int64(12)).
			AddRow("hackernews", int64(5)))

	stats, err := store.PlatformStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"reddit": 12, "hackernews": 5}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastUpdated_EmptyTable(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(`SELECT MAX\(created_at\) FROM trending_topics`).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow((*time.Time)(nil)))

	last, err := store.LastUpdated(context.Background())
	require.NoError(t, err)
	assert.True(t, last.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
