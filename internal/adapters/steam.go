package adapters

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const steamMostPlayedURL = "https://api.steampowered.com/ISteamChartsService/GetMostPlayedGames/v1/"

type steamMostPlayedResponse struct {
	Response struct {
		Ranks []struct {
			Rank         int `json:"rank"`
			AppID        int `json:"appid"`
			PeakInGame   int `json:"peak_in_game"`
			LastWeekRank int `json:"last_week_rank"`
		} `json:"ranks"`
	} `json:"response"`
}

// SteamAdapter ranks the most played games by concurrent peak. The
// charts endpoint only returns app IDs, so titles carry the ID and
// link to the store page.
type SteamAdapter struct {
	client *http.Client
}

var _ Adapter = (*SteamAdapter)(nil)

func NewSteamAdapter() *SteamAdapter {
	return &SteamAdapter{client: &http.Client{Timeout: 10 * time.Second}}
}

func (a *SteamAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformSteam
}

func (a *SteamAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	var resp steamMostPlayedResponse
	if err := fetchJSON(ctx, a.client, steamMostPlayedURL, nil, &resp); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	ranks := resp.Response.Ranks
	if len(ranks) > 25 {
		ranks = ranks[:25]
	}

	now := time.Now().UTC()
	var topics []models.RawTopic
	for _, r := range ranks {
		climb := r.LastWeekRank - r.Rank

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       fmt.Sprintf("Steam #%d most played (app %d)", r.Rank, r.AppID),
			Description: fmt.Sprintf("Peak %d concurrent players, moved %+d places this week", r.PeakInGame, climb),
			URL:         fmt.Sprintf("https://store.steampowered.com/app/%d", r.AppID),
			Score:       float64(r.PeakInGame) / 1000,
			Engagement:  float64(r.PeakInGame),
			Topic:       string(taxonomy.TopicGaming),
			Category:    "Most Played",
			Tags:        []string{"steam", "charts"},
			Author:      "steam",
			Timestamp:   now,
		})
	}

	return dedupeByTitle(topics)
}

func (a *SteamAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "Steam #1 most played (app 730)",
			Description: "Peak 1420000 concurrent players, moved +0 places this week",
			URL:         "https://store.steampowered.com/app/730",
			Score:       1420,
			Engagement:  1420000,
			Topic:       string(taxonomy.TopicGaming),
			Category:    "Most Played",
			Tags:        []string{"steam", "demo"},
			Author:      "steam",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "Steam #2 most played (app 570)",
			Description: "Peak 780000 concurrent players, moved +1 places this week",
			URL:         "https://store.steampowered.com/app/570",
			Score:       780,
			Engagement:  780000,
			Topic:       string(taxonomy.TopicGaming),
			Category:    "Most Played",
			Tags:        []string{"steam", "demo"},
			Author:      "steam",
			Timestamp:   now,
		},
	}
}
