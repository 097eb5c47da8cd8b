package middlewares_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/middlewares"
)

func TestAccessLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mw := middlewares.AccessLog(log)

	failing := func(context.Context, *internal.Request) internal.Outcome {
		return internal.Matched(nil, internal.NewHTTPError(http.StatusConflict, "dup", errors.New("dup key")))
	}

	mw(okEndpoint(nil))(context.Background(), newReq(http.MethodGet, "/ok", nil))
	mw(failing)(context.Background(), newReq(http.MethodPost, "/fail", nil))
	mw(unmatchedEndpoint)(context.Background(), newReq(http.MethodGet, "/none", nil))

	out := buf.String()
	require.Contains(t, out, `"level":"INFO","msg":"request","method":"GET","path":"/ok"`)
	require.Contains(t, out, `"status":200`)
	require.Contains(t, out, `"level":"ERROR","msg":"request failed","method":"POST","path":"/fail"`)
	require.Contains(t, out, `"status":409`)
	require.Contains(t, out, `"level":"DEBUG","msg":"request unmatched","method":"GET","path":"/none"`)
}
