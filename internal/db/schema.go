package db

import (
	"context"
	"fmt"
	"log/slog"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS trending_topics (
		id          TEXT PRIMARY KEY,
		platform    TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		url         TEXT NOT NULL DEFAULT '',
		score       DOUBLE PRECISION NOT NULL DEFAULT 0,
		engagement  DOUBLE PRECISION NOT NULL DEFAULT 0,
		category    TEXT NOT NULL DEFAULT '',
		topic       TEXT NOT NULL DEFAULT 'general',
		tags        TEXT[] NOT NULL DEFAULT '{}',
		author      TEXT NOT NULL DEFAULT '',
		timestamp   TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (platform, title, url)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_trending_topics_created_at
		ON trending_topics (created_at DESC)`,

	`CREATE INDEX IF NOT EXISTS idx_trending_topics_platform
		ON trending_topics (platform)`,

	`CREATE OR REPLACE FUNCTION get_platform_stats(days_ago INT)
	RETURNS TABLE (platform TEXT, count BIGINT) AS $$
		SELECT t.platform, COUNT(*)
		FROM trending_topics t
		WHERE t.created_at > NOW() - make_interval(days => days_ago)
		GROUP BY t.platform
	$$ LANGUAGE sql STABLE`,

	`CREATE OR REPLACE FUNCTION get_topic_stats(days_ago INT)
	RETURNS TABLE (topic TEXT, count BIGINT) AS $$
		SELECT t.topic, COUNT(*)
		FROM trending_topics t
		WHERE t.created_at > NOW() - make_interval(days => days_ago)
		GROUP BY t.topic
	$$ LANGUAGE sql STABLE`,
}

// EnsureSchema creates the topics table, its indexes and the aggregate
// count functions if they do not exist yet. Safe to run on every start.
func EnsureSchema(ctx context.Context, pool PgxIface) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	slog.Info("[DB] Schema verified")
	return nil
}
