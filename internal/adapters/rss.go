package adapters

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"trendscope/internal/models"
	"trendscope/internal/taxonomy"
)

const rssItemsPerFeed = 15

type rssFeed struct {
	url   string
	topic taxonomy.Topic
}

var rssFeeds = []rssFeed{
	{url: "https://feeds.arstechnica.com/arstechnica/index", topic: taxonomy.TopicTechnology},
	{url: "https://www.theverge.com/rss/index.xml", topic: taxonomy.TopicTechnology},
	{url: "https://feeds.bbci.co.uk/news/science_and_environment/rss.xml", topic: taxonomy.TopicScience},
}

// RSSAdapter aggregates a handful of editorial feeds. Feeds expose no
// engagement signal, so items are scored by recency: a fresh item
// outranks an older one, decaying linearly over 48 hours.
type RSSAdapter struct {
	parser *gofeed.Parser
}

var _ Adapter = (*RSSAdapter)(nil)

func NewRSSAdapter() *RSSAdapter {
	return &RSSAdapter{parser: gofeed.NewParser()}
}

func (a *RSSAdapter) Platform() taxonomy.Platform {
	return taxonomy.PlatformRSS
}

func (a *RSSAdapter) FetchTrendingTopics(ctx context.Context) []models.RawTopic {
	now := time.Now().UTC()

	var topics []models.RawTopic
	for _, feed := range rssFeeds {
		parsed, err := a.parser.ParseURLWithContext(feed.url, ctx)
		if err != nil {
			// Keep whatever other feeds already produced.
			logFallback(string(a.Platform()), err)
			continue
		}

		items := parsed.Items
		if len(items) > rssItemsPerFeed {
			items = items[:rssItemsPerFeed]
		}

		for _, item := range items {
			if item.Title == "" {
				continue
			}

			ts := now
			if item.PublishedParsed != nil {
				ts = item.PublishedParsed.UTC()
			}

			author := parsed.Title
			if item.Author != nil && item.Author.Name != "" {
				author = item.Author.Name
			}

			age := now.Sub(ts)
			score := 100 - age.Hours()*100/48
			if score < 1 {
				score = 1
			}

			topics = append(topics, models.RawTopic{
				Platform:    string(a.Platform()),
				Title:       item.Title,
				Description: truncate(item.Description, 280),
				URL:         item.Link,
				Score:       score,
				Engagement:  score,
				Topic:       string(feed.topic),
				Category:    parsed.Title,
				Tags:        append([]string{"rss"}, item.Categories...),
				Author:      author,
				Timestamp:   ts,
			})
		}
	}

	if len(topics) == 0 {
		return a.demoTopics()
	}
	return dedupeByTitle(topics)
}

func (a *RSSAdapter) demoTopics() []models.RawTopic {
	now := time.Now().UTC()
	return []models.RawTopic{
		{
			Platform:    string(a.Platform()),
			Title:       "Chipmaker unveils 1.4nm roadmap ahead of schedule",
			Description: "Volume production targeted for 2028",
			URL:         "https://example.com/rss/chip-roadmap",
			Score:       96,
			Engagement:  96,
			Topic:       string(taxonomy.TopicTechnology),
			Category:    "Demo Feed",
			Tags:        []string{"rss", "demo"},
			Author:      "Demo Feed",
			Timestamp:   now,
		},
		{
			Platform:    string(a.Platform()),
			Title:       "Coral restoration project reports first spawning success",
			Description: "Lab-grown colonies reproduce in the wild",
			URL:         "https://example.com/rss/coral-spawning",
			Score:       88,
			Engagement:  88,
			Topic:       string(taxonomy.TopicScience),
			Category:    "Demo Feed",
			Tags:        []string{"rss", "demo"},
			Author:      "Demo Feed",
			Timestamp:   now,
		},
	}
}
