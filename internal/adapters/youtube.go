package adapters

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const youtubeTrendingURL = "https://www.googleapis.com/youtube/v3/videos?part=snippet,statistics&chart=mostPopular&regionCode=US&maxResults=50&key="

type youtubeVideosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			ChannelTitle string   `json:"channelTitle"`
			PublishedAt  string   `json:"publishedAt"`
			Tags         []string `json:"tags"`
			CategoryID   string   `json:"categoryId"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Category IDs per the YouTube Data API videoCategories list.
var youtubeCategoryTopics = map[string]taxonomy.Topic{
	"10": taxonomy.TopicEntertainment, // Music
	"17": taxonomy.TopicSports,
	"20": taxonomy.TopicGaming,
	"23": taxonomy.TopicMemes, // Comedy
	"24": taxonomy.TopicEntertainment,
	"25": taxonomy.TopicPolitics, // News & Politics
	"28": taxonomy.TopicScience,  // Science & Technology
}

type YoutubeAdapter struct {
	client *http.Client
	apiKey string
}

var _ Adapter = (*YoutubeAdapter)(nil)

func NewYoutubeAdapter(apiKey string) *YoutubeAdapter {
	return &YoutubeAdapter{
		client: &http.Client{Timeout: 10 * time.Second},
		apiKey: apiKey,
	}
}

func (a *YoutubeAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformYoutube
}

func (a *YoutubeAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	if a.apiKey == "" {
		logMissingCredentials(string(a.Platform()))
		return a.demoTopics()
	}

	var resp youtubeVideosResponse
	if err := fetchJSON(ctx, a.client, youtubeTrendingURL+a.apiKey, nil, &resp); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	var topics []models.RawTopic
	for _, video := range resp.Items {
		if video.Snippet.Title == "" {
			continue
		}

		views, _ := strconv.ParseFloat(video.Statistics.ViewCount, 64)
		likes, _ := strconv.ParseFloat(video.Statistics.LikeCount, 64)
		comments, _ := strconv.ParseFloat(video.Statistics.CommentCount, 64)

		topic := youtubeCategoryTopics[video.Snippet.CategoryID]
		if topic == "" {
			topic = taxonomy.TopicEntertainment
		}

		ts := time.Now().UTC()
		if parsed, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt); err == nil {
			ts = parsed.UTC()
		}

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       video.Snippet.Title,
			Description: truncate(video.Snippet.Description, 280),
			URL:         "https://www.youtube.com/watch?v=" + video.ID,
			Score:       views / 1000,
			Engagement:  likes + comments*5,
			Topic:       string(topic),
			Category:    "Trending Videos",
			Tags:        append([]string{"youtube"}, video.Snippet.Tags...),
			Author:      video.Snippet.ChannelTitle,
			Timestamp:   ts,
		})
	}

	return dedupeByTitle(topics)
}

func (a *YoutubeAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "We built a working CPU out of dominoes",
			Description: "Four months, 250,000 dominoes, one adder",
			URL:         "https://www.youtube.com/watch?v=demo1",
			Score:       8400,
			Engagement:  312000,
			Topic:       string(taxonomy.TopicScience),
			Category:    "Trending Videos",
			Tags:        []string{"youtube", "demo"},
			Author:      "DemoLab",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "I speedran the new expansion in 6 hours",
			Description: "World-first clear, full VOD",
			URL:         "https://www.youtube.com/watch?v=demo2",
			Score:       5200,
			Engagement:  198000,
			Topic:       string(taxonomy.TopicGaming),
			Category:    "Trending Videos",
			Tags:        []string{"youtube", "demo"},
			Author:      "SpeedDemo",
			Timestamp:   now,
		},
	}
}
