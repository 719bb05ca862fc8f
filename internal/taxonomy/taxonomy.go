package taxonomy

import (
	"log/slog"
	"strings"
)

// Platform is the closed set of content sources the dashboard knows
// how to render. Values are the wire/storage representation.
type Platform string

const (
	PlatformReddit        Platform = "reddit"
	PlatformHackerNews    Platform = "hackernews"
	PlatformGithub        Platform = "github"
	PlatformStackOverflow Platform = "stackoverflow"
	PlatformProductHunt   Platform = "producthunt"
	PlatformDevTo         Platform = "devto"
	PlatformLobsters      Platform = "lobsters"
	PlatformNewsAPI       Platform = "newsapi"
	PlatformCoinGecko     Platform = "coingecko"
	PlatformBinance       Platform = "binance"
	PlatformSteam         Platform = "steam"
	PlatformTwitch        Platform = "twitch"
	PlatformYoutube       Platform = "youtube"
	PlatformMastodon      Platform = "mastodon"
	PlatformRSS           Platform = "rss"
)

// Topic is the closed categorization grid every item lands in.
type Topic string

const (
	TopicTechnology    Topic = "technology"
	TopicProgramming   Topic = "programming"
	TopicCrypto        Topic = "crypto"
	TopicGaming        Topic = "gaming"
	TopicScience       Topic = "science"
	TopicBusiness      Topic = "business"
	TopicEntertainment Topic = "entertainment"
	TopicSports        Topic = "sports"
	TopicPolitics      Topic = "politics"
	TopicHealth        Topic = "health"
	TopicMemes         Topic = "memes"
	TopicGeneral       Topic = "general"
)

var AllPlatforms = []Platform{
	PlatformReddit, PlatformHackerNews, PlatformGithub,
	PlatformStackOverflow, PlatformProductHunt, PlatformDevTo,
	PlatformLobsters, PlatformNewsAPI, PlatformCoinGecko,
	PlatformBinance, PlatformSteam, PlatformTwitch,
	PlatformYoutube, PlatformMastodon, PlatformRSS,
}

var AllTopics = []Topic{
	TopicTechnology, TopicProgramming, TopicCrypto, TopicGaming,
	TopicScience, TopicBusiness, TopicEntertainment, TopicSports,
	TopicPolitics, TopicHealth, TopicMemes, TopicGeneral,
}

// Lookup tables are built once at init: exact value plus a normalized
// form (lowercased, whitespace/underscores/hyphens stripped) so labels
// like "Hacker News" or "hacker_news" still land on the enum.
var (
	platformLookup = make(map[string]Platform)
	topicLookup    = make(map[string]Topic)
)

func init() {
	for _, p := range AllPlatforms {
		platformLookup[string(p)] = p
		platformLookup[normalize(string(p))] = p
	}
	for _, t := range AllTopics {
		topicLookup[string(t)] = t
		topicLookup[normalize(string(t))] = t
	}
}

func normalize(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.Join(strings.Fields(s), "")
}

// CoercePlatform maps a raw label onto the Platform enum. Unknown
// labels are returned verbatim with ok=false: platform identity is a
// filtering and stats key, so an unrecognized source must stay visible
// for diagnosis rather than being folded into a default.
func CoercePlatform(raw string) (string, bool) {
	if p, found := platformLookup[raw]; found {
		return string(p), true
	}
	if p, found := platformLookup[normalize(raw)]; found {
		return string(p), true
	}
	slog.Warn("[Taxonomy] Unknown platform label, keeping raw value",
		slog.String("platform", raw))
	return raw, false
}

// CoerceTopic maps a raw label onto the Topic enum, defaulting to
// TopicGeneral. Topic is a soft categorization; a miss is cosmetic.
func CoerceTopic(raw string) Topic {
	if t, found := topicLookup[raw]; found {
		return t
	}
	if t, found := topicLookup[normalize(raw)]; found {
		return t
	}
	if raw != "" {
		slog.Warn("[Taxonomy] Unknown topic label, defaulting to general",
			slog.String("topic", raw))
	}
	return TopicGeneral
}
