package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendscope/config"
	"trendscope/internal/models"
)

func TestAll_BuildsEveryAdapter(t *testing.T) {
	list := All(config.Config{})
	assert.Len(t, list, 15)

	seen := make(map[string]bool)
	for _, adapter := range list {
		platform := string(adapter.Platform())
		assert.False(t, seen[platform], "duplicate platform %s", platform)
		seen[platform] = true
	}
}

func TestMissingCredentialsServeDemoData(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		adapter Adapter
	}{
		{"reddit", NewRedditAdapter("", "")},
		{"producthunt", NewProductHuntAdapter("")},
		{"newsapi", NewNewsAPIAdapter("")},
		{"twitch", NewTwitchAdapter("", "")},
		{"youtube", NewYoutubeAdapter("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topics := tt.adapter.FetchTrendingTopics(ctx)
			require.NotEmpty(t, topics, "missing credentials must degrade to demo data, not an empty set")
			for _, topic := range topics {
				assert.Equal(t, string(tt.adapter.Platform()), topic.Platform)
				assert.NotEmpty(t, topic.Title)
				assert.NotEmpty(t, topic.URL)
				assert.False(t, topic.Timestamp.IsZero())
			}
		})
	}
}

func TestProductHuntDemoIncludesLowScoreItem(t *testing.T) {
	// The score-floor hook needs a below-floor item to be observable
	// in demo mode.
	topics := NewProductHuntAdapter("").FetchTrendingTopics(context.Background())

	var belowFloor bool
	for _, topic := range topics {
		if topic.Score < 50 {
			belowFloor = true
		}
	}
	assert.True(t, belowFloor)
}

func TestFetchJSON_DecodesOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "token", r.Header.Get("X-Test"))
		w.Write([]byte(`{"value": 7}`))
	}))
	defer ts.Close()

	var out struct {
		Value int `json:"value"`
	}
	err := fetchJSON(context.Background(), ts.Client(), ts.URL,
		map[string]string{"X-Test": "token"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Value)
}

func TestFetchJSON_RetriesServerErrors(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"value": 1}`))
	}))
	defer ts.Close()

	var out struct {
		Value int `json:"value"`
	}
	err := fetchJSON(context.Background(), ts.Client(), ts.URL, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestFetchJSON_DoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	var out any
	err := fetchJSON(context.Background(), ts.Client(), ts.URL, nil, &out)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetchJSON_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	var out any
	err := fetchJSON(context.Background(), ts.Client(), ts.URL, nil, &out)
	assert.Error(t, err)
	assert.Equal(t, maxRetries, calls)
}

func TestDedupeByTitle(t *testing.T) {
	in := []models.RawTopic{
		{Title: "a", Score: 1},
		{Title: "b"},
		{Title: "a", Score: 9},
	}
	out := dedupeByTitle(in)
	require.Len(t, out, 2)
	assert.Equal(t, float64(1), out[0].Score, "first occurrence wins")
}

func TestDemoTimestampsAreRecent(t *testing.T) {
	topics := NewHackerNewsAdapter().demoTopics()
	for _, topic := range topics {
		assert.WithinDuration(t, time.Now(), topic.Timestamp, time.Minute)
	}
}
