package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/pkg/logger"
)

type tenantKey struct{}

func tenantExtractor(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(tenantKey{}).(string); ok && v != "" {
		return slog.String("tenant", v), true
	}
	return slog.Attr{}, false
}

func TestNew_JSONWithExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Output: &buf}, tenantExtractor, nil)

	ctx := context.WithValue(context.Background(), tenantKey{}, "acme")
	log.InfoContext(ctx, "hello", slog.Int("n", 1))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "hello", rec["msg"])
	require.Equal(t, "acme", rec["tenant"])
	require.InDelta(t, 1, rec["n"], 0)
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Format: "text", Output: &buf})

	log.Info("dropped")
	require.Empty(t, buf.String())

	log.Warn("kept")
	require.Contains(t, buf.String(), "msg=kept")
}

func TestNew_ExtractorSkipsMissingValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf}, tenantExtractor)
	log.InfoContext(context.Background(), "no tenant")

	require.NotContains(t, buf.String(), "tenant")
}

func TestWithExtractors_WithAttrsKeepsExtraction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := logger.WithExtractors(slog.NewTextHandler(&buf, nil), tenantExtractor)
	log := slog.New(h).With("component", "chain").WithGroup("g")

	ctx := context.WithValue(context.Background(), tenantKey{}, "t1")
	log.InfoContext(ctx, "msg")

	require.Contains(t, buf.String(), "component=chain")
	require.Contains(t, buf.String(), "g.tenant=t1")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, logger.ParseLevel(tt.in), tt.in)
	}
}

func TestNewNope(t *testing.T) {
	t.Parallel()
	log := logger.NewNope()
	require.NotNil(t, log)
	require.NotPanics(t, func() { log.Error("discarded") })
}
