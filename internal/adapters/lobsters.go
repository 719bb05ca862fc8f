package adapters

import (
	"context"
	"net/http"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const lobstersHottestURL = "https://lobste.rs/hottest.json"

type lobstersStory struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	ShortIDURL    string   `json:"short_id_url"`
	Score         int      `json:"score"`
	CommentCount  int      `json:"comment_count"`
	Tags          []string `json:"tags"`
	CreatedAt     string   `json:"created_at"`
	SubmitterUser string   `json:"submitter_user"`
}

type LobstersAdapter struct {
	client *http.Client
}

var _ Adapter = (*LobstersAdapter)(nil)

func NewLobstersAdapter() *LobstersAdapter {
	return &LobstersAdapter{client: &http.Client{Timeout: 10 * time.Second}}
}

func (a *LobstersAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformLobsters
}

func (a *LobstersAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	var stories []lobstersStory
	if err := fetchJSON(ctx, a.client, lobstersHottestURL, nil, &stories); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	var topics []models.RawTopic
	for _, story := range stories {
		if story.Title == "" {
			continue
		}

		url := story.URL
		if url == "" {
			url = story.ShortIDURL
		}

		ts := time.Now().UTC()
		if parsed, err := time.Parse(time.RFC3339, story.CreatedAt); err == nil {
			ts = parsed.UTC()
		}

		topics = append(topics, models.RawTopic{
			Platform:   string(a.Platform()),
			Title:      story.Title,
			URL:        url,
			Score:      float64(story.Score * 8),
			Engagement: float64(story.Score*8 + story.CommentCount*12),
			Topic:      string(taxonomy.TopicProgramming),
			Category:   "Tech News",
			Tags:       append([]string{"lobsters"}, story.Tags...),
			Author:     story.SubmitterUser,
			Timestamp:  ts,
		})
	}

	return dedupeByTitle(topics)
}

func (a *LobstersAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:   string(a.Platform()),
			Title:      "Formally verifying a ring buffer in four afternoons",
			URL:        "https://lobste.rs/s/demo1",
			Score:      280,
			Engagement: 424,
			Topic:      string(taxonomy.TopicProgramming),
			Category:   "Tech News",
			Tags:       []string{"lobsters", "formalmethods", "demo"},
			Author:     "pushcx",
			Timestamp:  now,
		},
		{
			Platform:   string(a.Platform()),
			Title:      "A gentle tour of io_uring",
			URL:        "https://lobste.rs/s/demo2",
			Score:      176,
			Engagement: 272,
			Topic:      string(taxonomy.TopicProgramming),
			Category:   "Tech News",
			Tags:       []string{"lobsters", "linux", "demo"},
			Author:     "calvin",
			Timestamp:  now,
		},
	}
}
