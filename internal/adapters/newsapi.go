package adapters

import (
	"context"
	"net/http"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/sentiment"
	"trendscope/internal/taxonomy"
)

const newsAPIEndpoint = "https://newsapi.org/v2/top-headlines?country=us&pageSize=100&apiKey="

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewsAPIAdapter has no vote or view signal to score with, so it ranks
// headlines by position and weights engagement with VADER sentiment
// intensity: strongly charged headlines trend harder.
type NewsAPIAdapter struct {
	client *http.Client
	apiKey string
}

var _ Adapter = (*NewsAPIAdapter)(nil)

func NewNewsAPIAdapter(apiKey string) *NewsAPIAdapter {
	return &NewsAPIAdapter{
		client: &http.Client{Timeout: 10 * time.Second},
		apiKey: apiKey,
	}
}

func (a *NewsAPIAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformNewsAPI
}

func (a *NewsAPIAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	if a.apiKey == "" {
		logMissingCredentials(string(a.Platform()))
		return a.demoTopics()
	}

	var resp newsAPIResponse
	if err := fetchJSON(ctx, a.client, newsAPIEndpoint+a.apiKey, nil, &resp); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	var topics []models.RawTopic
	for i, art := range resp.Articles {
		if art.Title == "" {
			continue
		}

		ts := time.Now().UTC()
		if parsed, err := time.Parse(time.RFC3339, art.PublishedAt); err == nil {
			ts = parsed.UTC()
		}

		// Position-ranked score, sentiment-weighted engagement.
		score := float64(100 - i)
		intensity := sentiment.Intensity(art.Title + " " + art.Description)
		engagement := score * (1 + intensity)

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       art.Title,
			Description: art.Description,
			URL:         art.URL,
			Score:       score,
			Engagement:  engagement,
			Topic:       string(taxonomy.TopicGeneral),
			Category:    art.Source.Name,
			Tags:        []string{"news", "headlines"},
			Author:      art.Author,
			Timestamp:   ts,
		})
	}

	return dedupeByTitle(topics)
}

func (a *NewsAPIAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "Markets rally as rate cut expectations firm up",
			Description: "Major indices closed at record highs on Friday",
			URL:         "https://example.com/news/markets-rally",
			Score:       100,
			Engagement:  148,
			Topic:       string(taxonomy.TopicBusiness),
			Category:    "Demo Wire",
			Tags:        []string{"news", "demo"},
			Author:      "newsroom",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "New exoplanet survey doubles the known super-Earth count",
			Description: "Astronomers announce 120 new candidate worlds",
			URL:         "https://example.com/news/exoplanet-survey",
			Score:       98,
			Engagement:  121,
			Topic:       string(taxonomy.TopicScience),
			Category:    "Demo Wire",
			Tags:        []string{"news", "demo"},
			Author:      "newsroom",
			Timestamp:   now,
		},
	}
}
