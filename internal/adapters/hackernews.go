package adapters

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const (
	hnTopStoriesURL = "https://hacker-news.firebaseio.com/v0/topstories.json"
	hnItemURL       = "https://hacker-news.firebaseio.com/v0/item/%d.json"
	hnStoryLimit    = 30
)

type hnItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	By          string `json:"by"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
	Type        string `json:"type"`
}

type HackerNewsAdapter struct {
	client *http.Client
}

var _ Adapter = (*HackerNewsAdapter)(nil)

func NewHackerNewsAdapter() *HackerNewsAdapter {
	return &HackerNewsAdapter{client: &http.Client{Timeout: 10 * time.Second}}
}

func (a *HackerNewsAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformHackerNews
}

func (a *HackerNewsAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	var ids []int
	if err := fetchJSON(ctx, a.client, hnTopStoriesURL, nil, &ids); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	if len(ids) > hnStoryLimit {
		ids = ids[:hnStoryLimit]
	}

	var topics []models.RawTopic
	for _, id := range ids {
		var item hnItem
		if err := fetchJSON(ctx, a.client, fmt.Sprintf(hnItemURL, id), nil, &item); err != nil {
			// Partial results beat none; keep whatever is already collected.
			logFallback(string(a.Platform()), err)
			break
		}
		if item.Type != "story" || item.Title == "" {
			continue
		}

		url := item.URL
		if url == "" {
			url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID)
		}

		topics = append(topics, models.RawTopic{
			Platform:   string(a.Platform()),
			Title:      item.Title,
			URL:        url,
			Score:      float64(item.Score),
			Engagement: float64(item.Score + item.Descendants*2),
			Topic:      string(taxonomy.TopicTechnology),
			Category:   "Tech News",
			Tags:       []string{"hackernews", "frontpage"},
			Author:     item.By,
			Timestamp:  time.Unix(item.Time, 0).UTC(),
		})
	}

	return dedupeByTitle(topics)
}

func (a *HackerNewsAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:   string(a.Platform()),
			Title:      "Show HN: I built a self-hosted status page in a weekend",
			URL:        "https://news.ycombinator.com/item?id=1",
			Score:      412,
			Engagement: 716,
			Topic:      string(taxonomy.TopicTechnology),
			Category:   "Tech News",
			Tags:       []string{"hackernews", "demo"},
			Author:     "pg",
			Timestamp:  now,
		},
		{
			Platform:   string(a.Platform()),
			Title:      "SQLite as an application file format",
			URL:        "https://news.ycombinator.com/item?id=2",
			Score:      287,
			Engagement: 521,
			Topic:      string(taxonomy.TopicProgramming),
			Category:   "Tech News",
			Tags:       []string{"hackernews", "demo"},
			Author:     "dang",
			Timestamp:  now,
		},
		{
			Platform:   string(a.Platform()),
			Title:      "The case against unbounded work queues",
			URL:        "https://news.ycombinator.com/item?id=3",
			Score:      198,
			Engagement: 330,
			Topic:      string(taxonomy.TopicProgramming),
			Category:   "Tech News",
			Tags:       []string{"hackernews", "demo"},
			Author:     "tptacek",
			Timestamp:  now,
		},
	}
}
