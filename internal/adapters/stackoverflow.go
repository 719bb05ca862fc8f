package adapters

import (
	"context"
	"net/http"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const stackOverflowHotURL = "https://api.stackexchange.com/2.3/questions?order=desc&sort=hot&site=stackoverflow&pagesize=50"

type stackOverflowResponse struct {
	Items []struct {
		Title        string   `json:"title"`
		Link         string   `json:"link"`
		Score        int      `json:"score"`
		ViewCount    int      `json:"view_count"`
		AnswerCount  int      `json:"answer_count"`
		Tags         []string `json:"tags"`
		CreationDate int64    `json:"creation_date"`
		Owner        struct {
			DisplayName string `json:"display_name"`
		} `json:"owner"`
	} `json:"items"`
}

type StackOverflowAdapter struct {
	client *http.Client
}

var _ Adapter = (*StackOverflowAdapter)(nil)

func NewStackOverflowAdapter() *StackOverflowAdapter {
	return &StackOverflowAdapter{client: &http.Client{Timeout: 10 * time.Second}}
}

func (a *StackOverflowAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformStackOverflow
}

func (a *StackOverflowAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	var resp stackOverflowResponse
	if err := fetchJSON(ctx, a.client, stackOverflowHotURL, nil, &resp); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	var topics []models.RawTopic
	for _, q := range resp.Items {
		if q.Title == "" {
			continue
		}

		topics = append(topics, models.RawTopic{
			Platform:   string(a.Platform()),
			Title:      q.Title,
			URL:        q.Link,
			Score:      float64(q.Score * 10),
			Engagement: float64(q.ViewCount/10 + q.AnswerCount*25 + q.Score*5),
			Topic:      string(taxonomy.TopicProgramming),
			Category:   "Q&A",
			Tags:       append([]string{"stackoverflow"}, q.Tags...),
			Author:     q.Owner.DisplayName,
			Timestamp:  time.Unix(q.CreationDate, 0).UTC(),
		})
	}

	return dedupeByTitle(topics)
}

func (a *StackOverflowAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:   string(a.Platform()),
			Title:      "Why does my goroutine leak when the channel is never closed?",
			URL:        "https://stackoverflow.com/questions/demo1",
			Score:      310,
			Engagement: 2100,
			Topic:      string(taxonomy.TopicProgramming),
			Category:   "Q&A",
			Tags:       []string{"stackoverflow", "go", "demo"},
			Author:     "jon-skeet",
			Timestamp:  now,
		},
		{
			Platform:   string(a.Platform()),
			Title:      "Postgres ON CONFLICT with a partial unique index not firing",
			URL:        "https://stackoverflow.com/questions/demo2",
			Score:      180,
			Engagement: 1450,
			Topic:      string(taxonomy.TopicProgramming),
			Category:   "Q&A",
			Tags:       []string{"stackoverflow", "postgresql", "demo"},
			Author:     "erwin-brandstetter",
			Timestamp:  now,
		},
	}
}
