package adapters

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const coinGeckoTrendingURL = "https://api.coingecko.com/api/v3/search/trending"

type coinGeckoTrendingResponse struct {
	Coins []struct {
		Item struct {
			Name          string `json:"name"`
			Symbol        string `json:"symbol"`
			MarketCapRank int    `json:"market_cap_rank"`
			Slug          string `json:"slug"`
			Data          struct {
				PriceChangePercentage24h map[string]float64 `json:"price_change_percentage_24h"`
			} `json:"data"`
		} `json:"item"`
	} `json:"coins"`
}

// CoinGeckoAdapter scores by search-trending position and uses the
// 24h price-change magnitude as the engagement signal.
type CoinGeckoAdapter struct {
	client *http.Client
}

var _ Adapter = (*CoinGeckoAdapter)(nil)

func NewCoinGeckoAdapter() *CoinGeckoAdapter {
	return &CoinGeckoAdapter{client: &http.Client{Timeout: 10 * time.Second}}
}

func (a *CoinGeckoAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformCoinGecko
}

func (a *CoinGeckoAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	var resp coinGeckoTrendingResponse
	if err := fetchJSON(ctx, a.client, coinGeckoTrendingURL, nil, &resp); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	now := time.Now().UTC()
	var topics []models.RawTopic
	for i, coin := range resp.Coins {
		item := coin.Item
		if item.Name == "" {
			continue
		}

		change := item.Data.PriceChangePercentage24h["usd"]
		if change < 0 {
			change = -change
		}

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       fmt.Sprintf("%s (%s)", item.Name, item.Symbol),
			Description: fmt.Sprintf("Trending on CoinGecko, market cap rank %d", item.MarketCapRank),
			URL:         "https://www.coingecko.com/en/coins/" + item.Slug,
			Score:       float64((len(resp.Coins) - i) * 10),
			Engagement:  change * 100,
			Topic:       string(taxonomy.TopicCrypto),
			Category:    "Cryptocurrency",
			Tags:        []string{"crypto", "coingecko", item.Symbol},
			Author:      "coingecko",
			Timestamp:   now,
		})
	}

	return dedupeByTitle(topics)
}

func (a *CoinGeckoAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "Bitcoin (BTC)",
			Description: "Trending on CoinGecko, market cap rank 1",
			URL:         "https://www.coingecko.com/en/coins/bitcoin",
			Score:       150,
			Engagement:  420,
			Topic:       string(taxonomy.TopicCrypto),
			Category:    "Cryptocurrency",
			Tags:        []string{"crypto", "demo"},
			Author:      "coingecko",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "Solana (SOL)",
			Description: "Trending on CoinGecko, market cap rank 5",
			URL:         "https://www.coingecko.com/en/coins/solana",
			Score:       140,
			Engagement:  680,
			Topic:       string(taxonomy.TopicCrypto),
			Category:    "Cryptocurrency",
			Tags:        []string{"crypto", "demo"},
			Author:      "coingecko",
			Timestamp:   now,
		},
	}
}
