package adapters

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const githubSearchURL = "https://api.github.com/search/repositories?q=created:>%s&sort=stars&order=desc&per_page=50"

type githubSearchResponse struct {
	Items []struct {
		FullName        string    `json:"full_name"`
		Description     string    `json:"description"`
		HTMLURL         string    `json:"html_url"`
		StargazersCount int       `json:"stargazers_count"`
		ForksCount      int       `json:"forks_count"`
		OpenIssuesCount int       `json:"open_issues_count"`
		Language        string    `json:"language"`
		CreatedAt       time.Time `json:"created_at"`
		Owner           struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"items"`
}

// GithubAdapter surfaces repositories created in the last week, ranked
// by stars. A token raises the search rate limit but is not required.
type GithubAdapter struct {
	client *http.Client
	token  string
}

var _ Adapter = (*GithubAdapter)(nil)

func NewGithubAdapter(token string) *GithubAdapter {
	return &GithubAdapter{
		client: &http.Client{Timeout: 10 * time.Second},
		token:  token,
	}
}

func (a *GithubAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformGithub
}

func (a *GithubAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	since := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	url := fmt.Sprintf(githubSearchURL, since)

	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if a.token != "" {
		headers["Authorization"] = "Bearer " + a.token
	}

	var resp githubSearchResponse
	if err := fetchJSON(ctx, a.client, url, headers, &resp); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	var topics []models.RawTopic
	for _, repo := range resp.Items {
		tags := []string{"github", "trending"}
		if repo.Language != "" {
			tags = append(tags, repo.Language)
		}

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       repo.FullName,
			Description: repo.Description,
			URL:         repo.HTMLURL,
			Score:       float64(repo.StargazersCount),
			Engagement:  float64(repo.StargazersCount + repo.ForksCount*3 + repo.OpenIssuesCount),
			Topic:       string(taxonomy.TopicProgramming),
			Category:    repo.Language,
			Tags:        tags,
			Author:      repo.Owner.Login,
			Timestamp:   repo.CreatedAt.UTC(),
		})
	}

	return dedupeByTitle(topics)
}

func (a *GithubAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "acme/llm-router",
			Description: "Route prompts across local and hosted models with one API",
			URL:         "https://github.com/acme/llm-router",
			Score:       4200,
			Engagement:  5900,
			Topic:       string(taxonomy.TopicProgramming),
			Category:    "Go",
			Tags:        []string{"github", "demo"},
			Author:      "acme",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "nullptr/tiny-kv",
			Description: "A 500-line embeddable key-value store with MVCC",
			URL:         "https://github.com/nullptr/tiny-kv",
			Score:       2800,
			Engagement:  3600,
			Topic:       string(taxonomy.TopicProgramming),
			Category:    "Rust",
			Tags:        []string{"github", "demo"},
			Author:      "nullptr",
			Timestamp:   now,
		},
	}
}
