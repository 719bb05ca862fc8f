package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"trendscope/internal/aggregator"
	"trendscope/internal/service"
)

// Server is the thin HTTP boundary: every handler forwards to one core
// method and wraps the result in a {success, ...} envelope. Only this
// layer translates failures into status codes.
type Server struct {
	echo      *echo.Echo
	svc       *service.Service
	agg       *aggregator.Aggregator
	authToken string
}

func New(svc *service.Service, agg *aggregator.Aggregator, authToken string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{echo: e, svc: svc, agg: agg, authToken: authToken}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.echo.Group("/v1")

	v1.GET("/health", s.handleHealth)
	v1.GET("/topics", s.handleTopics)
	v1.GET("/topics/count", s.handleTopicsCount)
	v1.GET("/stats", s.handleStats)
	v1.GET("/last-updated", s.handleLastUpdated)
	v1.GET("/database/size", s.handleDatabaseSize)

	privileged := v1.Group("", s.bearerAuth)
	privileged.POST("/update", s.handleUpdate)
	privileged.POST("/cleanup", s.handleCleanup)
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// bearerAuth rejects privileged calls before any core logic runs. An
// unconfigured token means nothing can authenticate.
func (s *Server) bearerAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || s.authToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]any{
				"success": false,
				"error":   "unauthorized",
			})
		}
		return next(c)
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "status": "ok"})
}

func (s *Server) handleTopics(c echo.Context) error {
	sortBy := c.QueryParam("sort_by")
	switch sortBy {
	case "", service.SortByEngagement, service.SortByTimestamp, service.SortByRandom:
	default:
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid sort_by, valid values: engagement, timestamp, random",
		})
	}

	sortOrder := c.QueryParam("sort_order")
	if sortOrder == "" {
		sortOrder = "desc"
	}

	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	topics := s.svc.FetchTrendingTopics(c.Request().Context(), sortBy, sortOrder, limit, offset)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"topics":  topics,
		"count":   len(topics),
	})
}

func (s *Server) handleTopicsCount(c echo.Context) error {
	count := s.svc.GetTotalTopicsCount(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": count})
}

func (s *Server) handleStats(c echo.Context) error {
	stats := s.svc.GetStats(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (s *Server) handleLastUpdated(c echo.Context) error {
	last := s.svc.GetLastUpdated(c.Request().Context())

	var lastUpdated any
	if !last.IsZero() {
		lastUpdated = last.Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"last_updated": lastUpdated,
	})
}

func (s *Server) handleDatabaseSize(c echo.Context) error {
	size := s.svc.GetDatabaseSize(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"success": true, "size": size})
}

// handleUpdate starts an aggregation cycle and returns immediately.
// The trigger is intentionally detached: the caller is not accountable
// for the cycle's outcome, which is observable only via logs and
// eventual store state.
func (s *Server) handleUpdate(c echo.Context) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s.agg.UpdateWithFreshData(ctx)
	}()

	slog.Info("[Server] Update cycle triggered")
	return c.JSON(http.StatusAccepted, map[string]any{
		"success": true,
		"message": "update started",
	})
}

func (s *Server) handleCleanup(c echo.Context) error {
	result, err := s.svc.CleanupOldData(c.Request().Context())
	if err != nil {
		slog.Error("[Server] Cleanup failed",
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "cleanup failed",
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"result":  result,
	})
}

func queryInt(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
