package adapters

import (
	"context"
	"net/http"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const devToArticlesURL = "https://dev.to/api/articles?top=7&per_page=50"

type devToArticle struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	URL                    string   `json:"url"`
	PositiveReactionsCount int      `json:"positive_reactions_count"`
	CommentsCount          int      `json:"comments_count"`
	TagList                []string `json:"tag_list"`
	PublishedAt            string   `json:"published_at"`
	User                   struct {
		Username string `json:"username"`
	} `json:"user"`
}

type DevToAdapter struct {
	client *http.Client
}

var _ Adapter = (*DevToAdapter)(nil)

func NewDevToAdapter() *DevToAdapter {
	return &DevToAdapter{client: &http.Client{Timeout: 10 * time.Second}}
}

func (a *DevToAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformDevTo
}

func (a *DevToAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	var articles []devToArticle
	if err := fetchJSON(ctx, a.client, devToArticlesURL, nil, &articles); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	var topics []models.RawTopic
	for _, art := range articles {
		if art.Title == "" {
			continue
		}

		ts := time.Now().UTC()
		if parsed, err := time.Parse(time.RFC3339, art.PublishedAt); err == nil {
			ts = parsed.UTC()
		}

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       art.Title,
			Description: art.Description,
			URL:         art.URL,
			Score:       float64(art.PositiveReactionsCount),
			Engagement:  float64(art.PositiveReactionsCount + art.CommentsCount*5),
			Topic:       string(taxonomy.TopicProgramming),
			Category:    "Dev Community",
			Tags:        append([]string{"devto"}, art.TagList...),
			Author:      art.User.Username,
			Timestamp:   ts,
		})
	}

	return dedupeByTitle(topics)
}

func (a *DevToAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "Stop writing ORM queries you cannot explain",
			Description: "A field guide to reading the SQL your ORM generates",
			URL:         "https://dev.to/demo/orm-queries",
			Score:       540,
			Engagement:  790,
			Topic:       string(taxonomy.TopicProgramming),
			Category:    "Dev Community",
			Tags:        []string{"devto", "demo"},
			Author:      "ben",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "I replaced my dotfiles with a single Makefile",
			Description: "Minimalism for machine setup",
			URL:         "https://dev.to/demo/dotfiles-makefile",
			Score:       320,
			Engagement:  455,
			Topic:       string(taxonomy.TopicProgramming),
			Category:    "Dev Community",
			Tags:        []string{"devto", "demo"},
			Author:      "jess",
			Timestamp:   now,
		},
	}
}
