package adapters

import (
	"context"

	"trendscope/config"
	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

// Adapter wraps one external content source behind a uniform fetch
// contract. FetchTrendingTopics never fails: adapters catch their own
// network and parsing errors, log them, and return demo data or
// whatever partial results they collected. One bad source must never
// abort an aggregation cycle. Adapters do not touch storage.
type Adapter interface {
	Platform() taxonomy.Platform
	FetchTrendingTopics(ctx context.Context) []models.RawTopic
}

// All builds every registered adapter. Credentials come from cfg;
// adapters missing theirs degrade to demo data rather than erroring.
func All(cfg config.Config) []Adapter {
	return []Adapter{
		NewRedditAdapter(cfg.RedditClientID, cfg.RedditClientSecret),
		NewHackerNewsAdapter(),
		NewGithubAdapter(cfg.GithubToken),
		NewStackOverflowAdapter(),
		NewProductHuntAdapter(cfg.ProductHuntToken),
		NewDevToAdapter(),
		NewLobstersAdapter(),
		NewNewsAPIAdapter(cfg.NewsAPIKey),
		NewCoinGeckoAdapter(),
		NewBinanceAdapter(),
		NewSteamAdapter(),
		NewTwitchAdapter(cfg.TwitchClientID, cfg.TwitchClientSecret),
		NewYoutubeAdapter(cfg.YoutubeAPIKey),
		NewMastodonAdapter(cfg.MastodonServer),
		NewRSSAdapter(),
	}
}
