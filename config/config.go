package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/subosito/gotenv"
)

// Config carries every tunable the aggregation and serving paths read.
// Caps and windows are configuration, not constants, so deployments can
// size the store and dashboard independently.
type Config struct {
	ServerAddr string
	AuthToken  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RetentionDays   int
	CacheTTLSeconds int
	PerSourceLimit  int
	TotalLimit      int
	InsertChunkSize int

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	KafkaBroker string
	KafkaTopic  string

	DynamoArchiveTable string
	DynamoArchiveTTL   int

	NewsAPIKey         string
	RedditClientID     string
	RedditClientSecret string
	GithubToken        string
	ProductHuntToken   string
	YoutubeAPIKey      string
	TwitchClientID     string
	TwitchClientSecret string
	MastodonServer     string
}

func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("[Config] No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}

// FromEnv builds a Config from the process environment, applying
// defaults for everything optional.
func FromEnv() Config {
	return Config{
		ServerAddr: envOr("SERVER_ADDR", ":8080"),
		AuthToken:  os.Getenv("API_AUTH_TOKEN"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envOr("DB_NAME", "trendscope"),

		RetentionDays:   envIntOr("RETENTION_DAYS", 7),
		CacheTTLSeconds: envIntOr("CACHE_TTL_SECONDS", 900),
		PerSourceLimit:  envIntOr("PER_SOURCE_LIMIT", 50),
		TotalLimit:      envIntOr("TOTAL_LIMIT", 500),
		InsertChunkSize: envIntOr("INSERT_CHUNK_SIZE", 50),

		ValkeyAddress:  os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:      os.Getenv("VALKEY_TLS") == "true",

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  envOr("KAFKA_TOPIC", "topic-events"),

		DynamoArchiveTable: os.Getenv("DYNAMO_ARCHIVE_TABLE"),
		DynamoArchiveTTL:   envIntOr("DYNAMO_ARCHIVE_TTL_HOURS", 720),

		NewsAPIKey:         os.Getenv("NEWS_API_KEY"),
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		GithubToken:        os.Getenv("GITHUB_TOKEN"),
		ProductHuntToken:   os.Getenv("PRODUCTHUNT_TOKEN"),
		YoutubeAPIKey:      os.Getenv("YOUTUBE_API_KEY"),
		TwitchClientID:     os.Getenv("TWITCH_CLIENT_ID"),
		TwitchClientSecret: os.Getenv("TWITCH_CLIENT_SECRET"),
		MastodonServer:     envOr("MASTODON_SERVER", "https://mastodon.social"),
	}
}

// DSN renders the Postgres connection string from the DB_* parts.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("[Config] Invalid integer value, using default",
			slog.String("key", key), slog.String("value", v))
		return fallback
	}
	return n
}
