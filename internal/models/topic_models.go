package models

import "time"

// RawTopic is what an adapter hands the aggregator: one trending item
// straight from an upstream API, before taxonomy coercion. It has no
// identity; every fetch produces a fresh set.
type RawTopic struct {
	Platform    string    `json:"platform"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Score       float64   `json:"score"`
	Engagement  float64   `json:"engagement"`
	Category    string    `json:"category"`
	Topic       string    `json:"topic"`
	Tags        []string  `json:"tags"`
	Author      string    `json:"author"`
	Timestamp   time.Time `json:"timestamp"`
}

// TrendingTopic is the persisted form: a RawTopic with a surrogate ID
// and creation time, platform/topic coerced against the taxonomy.
// Rows are never updated in place; stale or republished rows are
// deleted and replaced.
type TrendingTopic struct {
	ID          string    `json:"id"`
	Platform    string    `json:"platform"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Score       float64   `json:"score"`
	Engagement  float64   `json:"engagement"`
	Category    string    `json:"category"`
	Topic       string    `json:"topic"`
	Tags        []string  `json:"tags"`
	Author      string    `json:"author"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
}
