package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trendscope/internal/models"
)

const topicColumns = `id, platform, title, description, url, score, engagement, category, topic, tags, author, timestamp, created_at`

// Store owns all reads and writes against the trending_topics table.
// The table carries a uniqueness constraint on (platform, title, url);
// a batch insert that trips it falls back to delete-then-insert per row.
type Store struct {
	pool PgxIface
}

func NewStore(pool PgxIface) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// InsertTopics batch-inserts topics in fixed-size chunks. A chunk that
// fails on the uniqueness constraint falls back to per-row handling:
// delete any row sharing (platform, title), then insert; latest wins
// for republished content. Chunk failures are logged and do not abort
// the remaining chunks. Returns the number of rows actually inserted.
func (s *Store) InsertTopics(ctx context.Context, topics []models.TrendingTopic, chunkSize int) int {
	if len(topics) == 0 {
		return 0
	}
	if chunkSize <= 0 {
		chunkSize = 50
	}

	inserted := 0
	for start := 0; start < len(topics); start += chunkSize {
		end := start + chunkSize
		if end > len(topics) {
			end = len(topics)
		}
		chunk := topics[start:end]

		if err := s.insertChunk(ctx, chunk); err != nil {
			slog.Warn("[Store] Chunk insert failed, falling back to per-row upsert",
				slog.Int("chunk_size", len(chunk)),
				slog.String("error", err.Error()))
			inserted += s.insertRowByRow(ctx, chunk)
			continue
		}
		inserted += len(chunk)
	}
	return inserted
}

func (s *Store) insertChunk(ctx context.Context, chunk []models.TrendingTopic) error {
	query := `INSERT INTO trending_topics (` + topicColumns + `) VALUES `

	values := make([]any, 0, len(chunk)*13)
	placeholderParts := make([]string, 0, len(chunk))

	for i, topic := range chunk {
		offset := i * 13
		parts := make([]string, 13)
		for j := range parts {
			parts[j] = fmt.Sprintf("$%d", offset+j+1)
		}
		placeholderParts = append(placeholderParts, "("+strings.Join(parts, ", ")+")")

		values = append(values,
			topic.ID, topic.Platform, topic.Title, topic.Description,
			topic.URL, topic.Score, topic.Engagement, topic.Category,
			topic.Topic, topic.Tags, topic.Author, topic.Timestamp,
			topic.CreatedAt)
	}

	query += strings.Join(placeholderParts, ", ")

	if _, err := s.pool.Exec(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to insert topics: %w", err)
	}
	return nil
}

func (s *Store) insertRowByRow(ctx context.Context, chunk []models.TrendingTopic) int {
	inserted := 0
	for _, topic := range chunk {
		if _, err := s.pool.Exec(ctx,
			`DELETE FROM trending_topics WHERE platform = $1 AND title = $2`,
			topic.Platform, topic.Title); err != nil {
			slog.Warn("[Store] Failed to delete conflicting row",
				slog.String("platform", topic.Platform),
				slog.String("title", topic.Title),
				slog.String("error", err.Error()))
			continue
		}

		if err := s.insertChunk(ctx, []models.TrendingTopic{topic}); err != nil {
			slog.Warn("[Store] Failed to insert row after conflict delete",
				slog.String("platform", topic.Platform),
				slog.String("title", topic.Title),
				slog.String("error", err.Error()))
			continue
		}
		inserted++
	}
	return inserted
}

// DeleteOlderThan evicts rows past the retention cutoff and returns
// how many were removed.
func (s *Store) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM trending_topics WHERE created_at < NOW() - make_interval(days => $1)`,
		days)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale topics: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountOlderThan reports how many rows are past the retention cutoff.
func (s *Store) CountOlderThan(ctx context.Context, days int) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM trending_topics WHERE created_at < NOW() - make_interval(days => $1)`,
		days).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountWithinWindow reports how many rows are inside the retention window.
func (s *Store) CountWithinWindow(ctx context.Context, days int) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM trending_topics WHERE created_at > NOW() - make_interval(days => $1)`,
		days).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// TotalCount reports the unwindowed row count.
func (s *Store) TotalCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trending_topics`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// QueryTopics returns rows inside the retention window. sortBy is
// "engagement" or "timestamp" (anything else falls back to newest
// first, which the caller shuffles for random sort).
func (s *Store) QueryTopics(ctx context.Context, sortBy, sortOrder string, limit, offset, retentionDays int) ([]models.TrendingTopic, error) {
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}

	var orderBy string
	switch sortBy {
	case "engagement":
		orderBy = "engagement " + order
	case "timestamp":
		orderBy = "timestamp " + order
	default:
		orderBy = "created_at DESC"
	}

	query := `SELECT ` + topicColumns + ` FROM trending_topics
        WHERE created_at > NOW() - make_interval(days => $1)
        ORDER BY ` + orderBy + `
        LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, query, retentionDays, limit, offset)
	if err != nil {
		slog.Error("[Store] Failed to query topics",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	var topics []models.TrendingTopic
	for rows.Next() {
		var t models.TrendingTopic
		err := rows.Scan(&t.ID, &t.Platform, &t.Title, &t.Description,
			&t.URL, &t.Score, &t.Engagement, &t.Category, &t.Topic,
			&t.Tags, &t.Author, &t.Timestamp, &t.CreatedAt)
		if err != nil {
			slog.Warn("[Store] Failed to scan topic row",
				slog.String("error", err.Error()))
			continue
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// PlatformStats calls the get_platform_stats stored procedure and
// returns (platform, count) pairs for the window.
func (s *Store) PlatformStats(ctx context.Context, days int) (map[string]int64, error) {
	return s.groupedStats(ctx, `SELECT * FROM get_platform_stats($1)`, days)
}

// TopicStats calls the get_topic_stats stored procedure.
func (s *Store) TopicStats(ctx context.Context, days int) (map[string]int64, error) {
	return s.groupedStats(ctx, `SELECT * FROM get_topic_stats($1)`, days)
}

func (s *Store) groupedStats(ctx context.Context, query string, days int) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			slog.Warn("[Store] Failed to scan stats row",
				slog.String("error", err.Error()))
			continue
		}
		stats[key] = count
	}
	return stats, rows.Err()
}

// LastUpdated returns the newest created_at in the table, zero time
// when the table is empty.
func (s *Store) LastUpdated(ctx context.Context) (time.Time, error) {
	var last *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT MAX(created_at) FROM trending_topics`).Scan(&last)
	if err != nil {
		return time.Time{}, err
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}
