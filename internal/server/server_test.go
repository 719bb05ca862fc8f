package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendscope/internal/aggregator"
	"trendscope/internal/cache"
	"trendscope/internal/models"
	"trendscope/internal/service"
)

type staticStore struct {
	topics []models.TrendingTopic
}

func (s *staticStore) QueryTopics(context.Context, string, string, int, int, int) ([]models.TrendingTopic, error) {
	return s.topics, nil
}

func (s *staticStore) PlatformStats(context.Context, int) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (s *staticStore) TopicStats(context.Context, int) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (s *staticStore) TotalCount(context.Context) (int64, error) {
	return int64(len(s.topics)), nil
}

func (s *staticStore) CountWithinWindow(context.Context, int) (int64, error) {
	return int64(len(s.topics)), nil
}

func (s *staticStore) CountOlderThan(context.Context, int) (int64, error) { return 0, nil }

func (s *staticStore) DeleteOlderThan(context.Context, int) (int64, error) { return 0, nil }

func (s *staticStore) InsertTopics(context.Context, []models.TrendingTopic, int) int { return 0 }

func (s *staticStore) LastUpdated(context.Context) (time.Time, error) {
	return time.Time{}, nil
}

func newTestServer(authToken string) *Server {
	store := &staticStore{topics: []models.TrendingTopic{
		{ID: "1", Platform: "reddit", Title: "a", Engagement: 10},
		{ID: "2", Platform: "hackernews", Title: "b", Engagement: 5},
	}}
	c := cache.NewMemoryCache(15 * time.Minute)
	svc := service.New(store, c, 7)
	agg := aggregator.New(nil, store, c, nil, aggregator.Options{RetentionDays: 7})
	return New(svc, agg, authToken)
}

func doRequest(t *testing.T, srv *Server, method, target, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestTopicsEndpoint(t *testing.T) {
	srv := newTestServer("secret")

	rec := doRequest(t, srv, http.MethodGet, "/v1/topics?sort_by=engagement&sort_order=desc&limit=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
}

func TestTopicsEndpoint_RejectsBadSort(t *testing.T) {
	srv := newTestServer("secret")

	rec := doRequest(t, srv, http.MethodGet, "/v1/topics?sort_by=title", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer("secret")

	rec := doRequest(t, srv, http.MethodGet, "/v1/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	stats, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	platformStats, ok := stats["platform_stats"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, platformStats, "reddit")
	assert.Contains(t, platformStats, "binance")
}

func TestUpdateEndpoint_RequiresBearerToken(t *testing.T) {
	srv := newTestServer("secret")

	rec := doRequest(t, srv, http.MethodPost, "/v1/update", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/v1/update", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/v1/update", "secret")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestUpdateEndpoint_UnconfiguredTokenRejectsEverything(t *testing.T) {
	srv := newTestServer("")

	rec := doRequest(t, srv, http.MethodPost, "/v1/update", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/v1/update", "anything")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCleanupEndpoint(t *testing.T) {
	srv := newTestServer("secret")

	rec := doRequest(t, srv, http.MethodPost, "/v1/cleanup", "secret")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestLastUpdatedEndpoint_NullWhenEmpty(t *testing.T) {
	srv := newTestServer("secret")

	rec := doRequest(t, srv, http.MethodGet, "/v1/last-updated", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["last_updated"])
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer("secret")

	rec := doRequest(t, srv, http.MethodGet, "/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
