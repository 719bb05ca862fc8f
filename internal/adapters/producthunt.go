package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const (
	productHuntGraphQLURL = "https://api.producthunt.com/v2/api/graphql"
	productHuntQuery      = `{"query":"{ posts(first: 50, order: VOTES) { edges { node { name tagline url votesCount commentsCount createdAt user { username } } } } }"}`
)

type productHuntResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node struct {
					Name          string    `json:"name"`
					Tagline       string    `json:"tagline"`
					URL           string    `json:"url"`
					VotesCount    int       `json:"votesCount"`
					CommentsCount int       `json:"commentsCount"`
					CreatedAt     time.Time `json:"createdAt"`
					User          struct {
						Username string `json:"username"`
					} `json:"user"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
}

type ProductHuntAdapter struct {
	client *http.Client
	token  string
}

var _ Adapter = (*ProductHuntAdapter)(nil)

func NewProductHuntAdapter(token string) *ProductHuntAdapter {
	return &ProductHuntAdapter{
		client: &http.Client{Timeout: 10 * time.Second},
		token:  token,
	}
}

func (a *ProductHuntAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformProductHunt
}

func (a *ProductHuntAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	if a.token == "" {
		logMissingCredentials(string(a.Platform()))
		return a.demoTopics()
	}

	resp, err := a.queryPosts(ctx)
	if err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	var topics []models.RawTopic
	for _, edge := range resp.Data.Posts.Edges {
		node := edge.Node
		if node.Name == "" {
			continue
		}

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       node.Name,
			Description: node.Tagline,
			URL:         node.URL,
			Score:       float64(node.VotesCount),
			Engagement:  float64(node.VotesCount + node.CommentsCount*4),
			Topic:       string(taxonomy.TopicTechnology),
			Category:    "Product Launch",
			Tags:        []string{"producthunt", "launch"},
			Author:      node.User.Username,
			Timestamp:   node.CreatedAt.UTC(),
		})
	}

	return dedupeByTitle(topics)
}

func (a *ProductHuntAdapter) queryPosts(ctx context.Context) (*productHuntResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		productHuntGraphQLURL, bytes.NewBufferString(productHuntQuery))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	res, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("producthunt returned %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var parsed productHuntResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (a *ProductHuntAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "Inbox Autopilot",
			Description: "Triage your email with local-first rules, no AI required",
			URL:         "https://www.producthunt.com/posts/inbox-autopilot",
			Score:       620,
			Engagement:  940,
			Topic:       string(taxonomy.TopicTechnology),
			Category:    "Product Launch",
			Tags:        []string{"producthunt", "demo"},
			Author:      "rrhoover",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "Pagerbeat",
			Description: "On-call schedules your team will actually follow",
			URL:         "https://www.producthunt.com/posts/pagerbeat",
			Score:       12,
			Engagement:  40,
			Topic:       string(taxonomy.TopicTechnology),
			Category:    "Product Launch",
			Tags:        []string{"producthunt", "demo"},
			Author:      "chrismessina",
			Timestamp:   now,
		},
	}
}
