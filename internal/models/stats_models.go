package models

// Stats is recomputed on demand from the store. PlatformStats and
// TopicStats carry a key for every enum member, zero-filled; the
// dashboard renders a fixed grid and indexes by the full key set.
type Stats struct {
	TotalTopics   int64            `json:"total_topics"`
	AllTimeTopics int64            `json:"all_time_topics"`
	PlatformStats map[string]int64 `json:"platform_stats"`
	TopicStats    map[string]int64 `json:"topic_stats"`
}

// DatabaseSize reports store footprint without mutating anything.
type DatabaseSize struct {
	TotalRecords  int64 `json:"total_records"`
	OldRecords    int64 `json:"old_records"`
	RetentionDays int   `json:"retention_days"`
}

// CleanupResult is what a retention sweep returns: the rows counted
// before the delete ran, not a post-hoc recount.
type CleanupResult struct {
	DeletedCount int64 `json:"deleted_count"`
}
