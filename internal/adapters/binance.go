package adapters

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const (
	binanceTickerURL = "https://api.binance.com/api/v3/ticker/24hr"
	binanceTopMovers = 25
)

type binanceTicker struct {
	Symbol             string `json:"symbol"`
	PriceChangePercent string `json:"priceChangePercent"`
	LastPrice          string `json:"lastPrice"`
	QuoteVolume        string `json:"quoteVolume"`
	Count              int64  `json:"count"`
}

// BinanceAdapter surfaces the biggest 24h movers among USDT pairs.
// Score is the price-change magnitude, engagement the trade count.
type BinanceAdapter struct {
	client *http.Client
}

var _ Adapter = (*BinanceAdapter)(nil)

func NewBinanceAdapter() *BinanceAdapter {
	return &BinanceAdapter{client: &http.Client{Timeout: 15 * time.Second}}
}

func (a *BinanceAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformBinance
}

func (a *BinanceAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	var tickers []binanceTicker
	if err := fetchJSON(ctx, a.client, binanceTickerURL, nil, &tickers); err != nil {
		logFallback(string(a.Platform()), err)
		return a.demoTopics()
	}

	type mover struct {
		ticker binanceTicker
		change float64
	}

	var movers []mover
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, "USDT") {
			continue
		}
		change, err := strconv.ParseFloat(t.PriceChangePercent, 64)
		if err != nil {
			continue
		}
		if change < 0 {
			change = -change
		}
		movers = append(movers, mover{ticker: t, change: change})
	}

	sort.Slice(movers, func(i, j int) bool {
		return movers[i].change > movers[j].change
	})
	if len(movers) > binanceTopMovers {
		movers = movers[:binanceTopMovers]
	}

	now := time.Now().UTC()
	var topics []models.RawTopic
	for _, m := range movers {
		asset := strings.TrimSuffix(m.ticker.Symbol, "USDT")
		direction := "up"
		if strings.HasPrefix(m.ticker.PriceChangePercent, "-") {
			direction = "down"
		}

		topics = append(topics, models.RawTopic{
			Platform:    string(a.Platform()),
			Title:       asset + " moves " + direction + " " + m.ticker.PriceChangePercent + "% in 24h",
			Description: "Last price " + m.ticker.LastPrice + ", quote volume " + m.ticker.QuoteVolume,
			URL:         "https://www.binance.com/en/trade/" + asset + "_USDT",
			Score:       m.change * 10,
			Engagement:  float64(m.ticker.Count) / 100,
			Topic:       string(taxonomy.TopicCrypto),
			Category:    "Markets",
			Tags:        []string{"crypto", "binance", asset},
			Author:      "binance",
			Timestamp:   now,
		})
	}

	return dedupeByTitle(topics)
}

func (a *BinanceAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "ETH moves up 8.4% in 24h",
			Description: "Last price 4120.55, quote volume 1843000000",
			URL:         "https://www.binance.com/en/trade/ETH_USDT",
			Score:       84,
			Engagement:  15200,
			Topic:       string(taxonomy.TopicCrypto),
			Category:    "Markets",
			Tags:        []string{"crypto", "demo"},
			Author:      "binance",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "DOGE moves down 12.1% in 24h",
			Description: "Last price 0.1182, quote volume 220000000",
			URL:         "https://www.binance.com/en/trade/DOGE_USDT",
			Score:       121,
			Engagement:  9800,
			Topic:       string(taxonomy.TopicCrypto),
			Category:    "Markets",
			Tags:        []string{"crypto", "demo"},
			Author:      "binance",
			Timestamp:   now,
		},
	}
}
