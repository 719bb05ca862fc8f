package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const (
	redditAuthURL = "https://www.reddit.com/api/v1/access_token"
	redditHotURL  = "https://oauth.reddit.com/r/all/hot?limit=100"
)

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Subreddit      string  `json:"subreddit"`
				AuthorFullname string  `json:"author_fullname"`
				Author         string  `json:"author"`
				Title          string  `json:"title"`
				Selftext       string  `json:"selftext"`
				Ups            int     `json:"ups"`
				NumComments    int     `json:"num_comments"`
				CreatedUTC     float64 `json:"created_utc"`
				Permalink      string  `json:"permalink"`
				ID             string  `json:"id"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

var subredditTopics = map[string]taxonomy.Topic{
	"technology":     taxonomy.TopicTechnology,
	"programming":    taxonomy.TopicProgramming,
	"cryptocurrency": taxonomy.TopicCrypto,
	"gaming":         taxonomy.TopicGaming,
	"science":        taxonomy.TopicScience,
	"wallstreetbets": taxonomy.TopicBusiness,
	"movies":         taxonomy.TopicEntertainment,
	"television":     taxonomy.TopicEntertainment,
	"sports":         taxonomy.TopicSports,
	"nba":            taxonomy.TopicSports,
	"politics":       taxonomy.TopicPolitics,
	"worldnews":      taxonomy.TopicPolitics,
	"health":         taxonomy.TopicHealth,
	"memes":          taxonomy.TopicMemes,
	"dankmemes":      taxonomy.TopicMemes,
}

type RedditAdapter struct {
	client        *http.Client
	hasCredential bool
}

var _ Adapter = (*RedditAdapter)(nil)

func NewRedditAdapter(clientID, clientSecret string) *RedditAdapter {
	if clientID == "" || clientSecret == "" {
		return &RedditAdapter{}
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     redditAuthURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return &RedditAdapter{
		client:        conf.Client(context.Background()),
		hasCredential: true,
	}
}

func (a *RedditAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformReddit
}

func (a *RedditAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	if !a.hasCredential {
		logMissingCredentials(string(a.Platform()))
		return a.demoTopics()
	}

	listing, err := a.fetchHot(ctx)
	if err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	var topics []models.RawTopic
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.Title == "" {
			continue
		}

		topic := subredditTopics[post.Subreddit]
		if topic == "" {
			topic = taxonomy.TopicGeneral
		}

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       post.Title,
			Description: truncate(post.Selftext, 280),
			URL:         "https://www.reddit.com" + post.Permalink,
			Score:       float64(post.Ups),
			Engagement:  float64(post.Ups + post.NumComments*2),
			Topic:       string(topic),
			Category:    post.Subreddit,
			Tags:        []string{"reddit", post.Subreddit},
			Author:      post.Author,
			Timestamp:   time.Unix(int64(post.CreatedUTC), 0).UTC(),
		})
	}

	return dedupeByTitle(topics)
}

func (a *RedditAdapter) fetchHot(ctx context.Context) (*redditListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, redditHotURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (a *RedditAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:   string(a.Platform()),
			Title:      "What tech stack would you pick for a side project in 2026?",
			URL:        "https://www.reddit.com/r/programming/comments/demo1",
			Score:      5400,
			Engagement: 9200,
			Topic:      string(taxonomy.TopicProgramming),
			Category:   "programming",
			Tags:       []string{"reddit", "demo"},
			Author:     "spez",
			Timestamp:  now,
		},
		{
			Platform:   string(a.Platform()),
			Title:      "Scientists confirm record low Arctic sea ice extent",
			URL:        "https://www.reddit.com/r/science/comments/demo2",
			Score:      12800,
			Engagement: 18100,
			Topic:      string(taxonomy.TopicScience),
			Category:   "science",
			Tags:       []string{"reddit", "demo"},
			Author:     "unidan",
			Timestamp:  now,
		},
		{
			Platform:   string(a.Platform()),
			Title:      "GME is moving again and nobody knows why",
			URL:        "https://www.reddit.com/r/wallstreetbets/comments/demo3",
			Score:      31000,
			Engagement: 52400,
			Topic:      string(taxonomy.TopicBusiness),
			Category:   "wallstreetbets",
			Tags:       []string{"reddit", "demo"},
			Author:     "dfv",
			Timestamp:  now,
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
