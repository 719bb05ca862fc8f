package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"trendscope/internal/models"
)

const (
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 8 * time.Second
	userAgent      = "trendscope-bot/0.1"
)

// fetchJSON performs a GET with retry and exponential backoff on rate
// limiting and server errors, then decodes the body into dest.
func fetchJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, dest any) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		res, err := client.Do(req)
		if err != nil {
			lastErr = err
		} else {
			switch res.StatusCode {
			case http.StatusOK:
				body, err := io.ReadAll(res.Body)
				res.Body.Close()
				if err != nil {
					return err
				}
				return json.Unmarshal(body, dest)
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable:
				_, _ = io.Copy(io.Discard, res.Body)
				res.Body.Close()
				lastErr = fmt.Errorf("upstream returned %d", res.StatusCode)
			default:
				_, _ = io.Copy(io.Discard, res.Body)
				res.Body.Close()
				return fmt.Errorf("upstream returned %d", res.StatusCode)
			}
		}

		if attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	if lastErr == nil {
		lastErr = errors.New("request failed after max retries")
	}
	return lastErr
}

// dedupeByTitle keeps the first occurrence of each title within one
// adapter's result set.
func dedupeByTitle(topics []models.RawTopic) []models.RawTopic {
	seen := make(map[string]bool, len(topics))
	out := topics[:0]
	for _, t := range topics {
		if seen[t.Title] {
			continue
		}
		seen[t.Title] = true
		out = append(out, t)
	}
	return out
}

func logFallback(platform string, err error) {
	slog.Warn("[Adapters] Upstream fetch failed, serving demo data",
		slog.String("platform", platform),
		slog.String("error", err.Error()))
}

func logMissingCredentials(platform string) {
	slog.Info("[Adapters] Credentials missing, serving demo data",
		slog.String("platform", platform))
}
