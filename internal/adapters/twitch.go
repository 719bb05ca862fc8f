package adapters

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const (
	twitchTokenURL    = "https://id.twitch.tv/oauth2/token"
	twitchTopGamesURL = "https://api.twitch.tv/helix/games/top?first=25"
)

type twitchTopGamesResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		BoxArtURL string `json:"box_art_url"`
	} `json:"data"`
}

type TwitchAdapter struct {
	client        *http.Client
	clientID      string
	hasCredential bool
}

var _ Adapter = (*TwitchAdapter)(nil)

func NewTwitchAdapter(clientID, clientSecret string) *TwitchAdapter {
	if clientID == "" || clientSecret == "" {
		return &TwitchAdapter{}
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     twitchTokenURL,
	}
	return &TwitchAdapter{
		client:        conf.Client(context.Background()),
		clientID:      clientID,
		hasCredential: true,
	}
}

func (a *TwitchAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformTwitch
}

func (a *TwitchAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	if !a.hasCredential {
		logMissingCredentials(string(a.Platform()))
		return a.demoTopics()
	}

	headers := map[string]string{"Client-Id": a.clientID}
	var resp twitchTopGamesResponse
	if err := fetchJSON(ctx, a.client, twitchTopGamesURL, headers, &resp); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	now := time.Now().UTC()
	var topics []models.RawTopic
	for i, game := range resp.Data {
		if game.Name == "" {
			continue
		}

		// Helix returns no viewer counts on this endpoint; rank is the
		// only signal.
		rankScore := float64((len(resp.Data) - i) * 40)

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       game.Name + " trending on Twitch",
			Description: "Top game directory position " + strconv.Itoa(i+1),
			URL:         "https://www.twitch.tv/directory/game/" + game.Name,
			Score:       rankScore,
			Engagement:  rankScore * 1.5,
			Topic:       string(taxonomy.TopicGaming),
			Category:    "Live Streams",
			Tags:        []string{"twitch", "streaming"},
			Author:      "twitch",
			Timestamp:   now,
		})
	}

	return dedupeByTitle(topics)
}

func (a *TwitchAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "Just Chatting trending on Twitch",
			Description: "Top game directory position 1",
			URL:         "https://www.twitch.tv/directory/game/Just%20Chatting",
			Score:       1000,
			Engagement:  1500,
			Topic:       string(taxonomy.TopicEntertainment),
			Category:    "Live Streams",
			Tags:        []string{"twitch", "demo"},
			Author:      "twitch",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "Counter-Strike 2 trending on Twitch",
			Description: "Top game directory position 2",
			URL:         "https://www.twitch.tv/directory/game/Counter-Strike%202",
			Score:       960,
			Engagement:  1440,
			Topic:       string(taxonomy.TopicGaming),
			Category:    "Live Streams",
			Tags:        []string{"twitch", "demo"},
			Author:      "twitch",
			Timestamp:   now,
		},
	}
}
