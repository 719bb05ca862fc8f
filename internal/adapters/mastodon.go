package adapters

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/sentiment"
	"trendscope/internal/taxonomy"
)

const mastodonTrendsPath = "/api/v1/trends/tags?limit=20"

type mastodonTag struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	History []struct {
		Uses     string `json:"uses"`
		Accounts string `json:"accounts"`
	} `json:"history"`
}

// MastodonAdapter reads the public trends endpoint of one instance.
// No credentials are needed; the server is configurable so a
// deployment can point at its own community.
type MastodonAdapter struct {
	client *http.Client
	server string
}

var _ Adapter = (*MastodonAdapter)(nil)

func NewMastodonAdapter(server string) *MastodonAdapter {
	return &MastodonAdapter{
		client: &http.Client{Timeout: 10 * time.Second},
		server: server,
	}
}

func (a *MastodonAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformMastodon
}

func (a *MastodonAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	var tags []mastodonTag
	if err := fetchJSON(ctx, a.client, a.server+mastodonTrendsPath, nil, &tags); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	now := time.Now().UTC()
	var topics []models.RawTopic
	for _, tag := range tags {
		if tag.Name == "" {
			continue
		}

		var uses, accounts float64
		if len(tag.History) > 0 {
			u, _ := strconv.ParseFloat(tag.History[0].Uses, 64)
			acc, _ := strconv.ParseFloat(tag.History[0].Accounts, 64)
			uses, accounts = u, acc
		}

		// Charged hashtags spread further across instances.
		intensity := sentiment.Intensity(tag.Name)

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       "#" + tag.Name,
			Description: "Trending hashtag on " + a.server,
			URL:         tag.URL,
			Score:       uses,
			Engagement:  (uses + accounts*2) * (1 + intensity),
			Topic:       string(taxonomy.TopicGeneral),
			Category:    "Fediverse",
			Tags:        []string{"mastodon", tag.Name},
			Author:      "mastodon",
			Timestamp:   now,
		})
	}

	return dedupeByTitle(topics)
}

func (a *MastodonAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "#caturday",
			Description: "Trending hashtag on " + a.server,
			URL:         a.server + "/tags/caturday",
			Score:       640,
			Engagement:  1210,
			Topic:       string(taxonomy.TopicMemes),
			Category:    "Fediverse",
			Tags:        []string{"mastodon", "demo"},
			Author:      "mastodon",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "#introduction",
			Description: "Trending hashtag on " + a.server,
			URL:         a.server + "/tags/introduction",
			Score:       410,
			Engagement:  890,
			Topic:       string(taxonomy.TopicGeneral),
			Category:    "Fediverse",
			Tags:        []string{"mastodon", "demo"},
			Author:      "mastodon",
			Timestamp:   now,
		},
	}
}
