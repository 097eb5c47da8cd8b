package health_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()
		report := health.Run(context.Background(), nil)
		require.Equal(t, health.StatusHealthy, report.Status)
		require.Empty(t, report.Checks)
	})

	t.Run("one failure marks unhealthy", func(t *testing.T) {
		t.Parallel()
		var logs bytes.Buffer
		report := health.Run(context.Background(), health.Checks{
			"db":    func(context.Context) error { return nil },
			"cache": func(context.Context) error { return errors.New("connection refused") },
		}, health.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

		require.Equal(t, health.StatusUnhealthy, report.Status)
		require.Equal(t, health.StatusHealthy, report.Checks["db"].Status)
		require.Equal(t, health.StatusUnhealthy, report.Checks["cache"].Status)
		require.Equal(t, "connection refused", report.Checks["cache"].Error)
		require.Contains(t, logs.String(), "check=cache")
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		report := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(10*time.Millisecond))

		require.Equal(t, health.StatusUnhealthy, report.Status)
		require.Contains(t, report.Checks["slow"].Error, health.ErrCheckTimeout.Error())
	})
}

func dispatch(t *testing.T, routes []internal.HomogeneousRoute, method, target string, header http.Header) (*internal.Response, string) {
	t.Helper()
	path, query, _ := strings.Cut(target, "?")
	req := internal.NewRequest(internal.Head{Method: method, Path: path, RawQuery: query, Header: header}, nil)

	chain := internal.NewChain(internal.WithRoutes(routes...), internal.WithNotFound(internal.NotFound))
	resp, err := chain.Handle(context.Background(), req)
	require.NoError(t, err)
	body, err := internal.CollectFrames(resp.Frames())
	require.NoError(t, err)
	return resp, string(body)
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	healthy := health.Routes(health.Checks{"db": func(context.Context) error { return nil }})
	failing := health.Routes(health.Checks{"db": func(context.Context) error { return errors.New("down") }})

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		resp, body := dispatch(t, failing, http.MethodGet, "/health/live", nil)
		require.Equal(t, http.StatusOK, resp.Status)
		require.Equal(t, "OK", body)
	})

	t.Run("readiness healthy", func(t *testing.T) {
		t.Parallel()
		resp, body := dispatch(t, healthy, http.MethodGet, "/health/ready", nil)
		require.Equal(t, http.StatusOK, resp.Status)
		require.Equal(t, "OK", body)
	})

	t.Run("readiness failing", func(t *testing.T) {
		t.Parallel()
		resp, body := dispatch(t, failing, http.MethodHead, "/health/ready", nil)
		require.Equal(t, http.StatusServiceUnavailable, resp.Status)
		require.Equal(t, "Service Unavailable", body)
	})

	t.Run("json via query", func(t *testing.T) {
		t.Parallel()
		resp, body := dispatch(t, failing, http.MethodGet, "/health/ready?format=json", nil)
		require.Equal(t, http.StatusServiceUnavailable, resp.Status)
		require.JSONEq(t, `{"status":"unhealthy","checks":{"db":{"status":"unhealthy","error":"down"}}}`, body)
	})

	t.Run("json via accept", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("Accept", "application/json")
		_, body := dispatch(t, healthy, http.MethodGet, "/health/live", h)
		require.JSONEq(t, `{"status":"healthy"}`, body)
	})

	t.Run("writes are not health checks", func(t *testing.T) {
		t.Parallel()
		resp, _ := dispatch(t, healthy, http.MethodPost, "/health/live", nil)
		require.Equal(t, http.StatusNotFound, resp.Status)
	})

	t.Run("custom paths", func(t *testing.T) {
		t.Parallel()
		routes := health.Routes(nil, health.WithLivenessPath("/livez"), health.WithReadinessPath("/readyz"))
		resp, _ := dispatch(t, routes, http.MethodGet, "/readyz", nil)
		require.Equal(t, http.StatusOK, resp.Status)
		resp, _ = dispatch(t, routes, http.MethodGet, "/health/live", nil)
		require.Equal(t, http.StatusNotFound, resp.Status)
	})
}
