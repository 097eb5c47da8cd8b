package middlewares_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("fast endpoint completes", func(t *testing.T) {
		t.Parallel()

		out := middlewares.Timeout(time.Second)(okEndpoint(nil))(context.Background(), newReq(http.MethodGet, "/", nil))
		resp, err := out.Result()
		require.NoError(t, err)
		body, err := internal.CollectFrames(resp.Frames())
		require.NoError(t, err)
		require.Equal(t, "ok", string(body))
	})

	t.Run("slow endpoint times out", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		t.Cleanup(func() { close(release) })
		slow := func(context.Context, *internal.Request) internal.Outcome {
			<-release
			return internal.Matched(internal.Text(http.StatusOK, "late"), nil)
		}

		out := middlewares.Timeout(20 * time.Millisecond)(slow)(context.Background(), newReq(http.MethodGet, "/", nil))
		require.True(t, out.Matched())
		te, ok := middlewares.AsTimeoutError(out.Err())
		require.True(t, ok)
		require.Equal(t, 20*time.Millisecond, te.Duration)
		require.Equal(t, http.StatusServiceUnavailable, internal.StatusCode(out.Err()))
	})

	t.Run("deadline is visible to the endpoint", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool
		observe := func(ctx context.Context, _ *internal.Request) internal.Outcome {
			_, hasDeadline = ctx.Deadline()
			return internal.Matched(internal.Empty(http.StatusNoContent), nil)
		}
		middlewares.Timeout(time.Second)(observe)(context.Background(), newReq(http.MethodGet, "/", nil))
		require.True(t, hasDeadline)
	})

	t.Run("context stays alive while streaming", func(t *testing.T) {
		t.Parallel()

		var streamCtx context.Context
		streaming := func(ctx context.Context, _ *internal.Request) internal.Outcome {
			streamCtx = ctx
			return internal.Matched(internal.Stream(http.StatusOK, "text/plain", func(yield func([]byte, error) bool) {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return
				}
				yield([]byte("chunk"), nil)
			}), nil)
		}

		out := middlewares.Timeout(time.Second)(streaming)(context.Background(), newReq(http.MethodGet, "/", nil))
		require.NoError(t, streamCtx.Err())

		body, err := internal.CollectFrames(out.Response().Frames())
		require.NoError(t, err)
		require.Equal(t, "chunk", string(body))
		require.ErrorIs(t, streamCtx.Err(), context.Canceled)
	})

	t.Run("parent cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		blocked := func(ctx context.Context, _ *internal.Request) internal.Outcome {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			return internal.Matched(nil, ctx.Err())
		}
		out := middlewares.Timeout(time.Second)(blocked)(ctx, newReq(http.MethodGet, "/", nil))
		require.ErrorIs(t, out.Err(), context.Canceled)
		require.False(t, middlewares.IsTimeoutError(out.Err()))
	})

	t.Run("unmatched stays unmatched", func(t *testing.T) {
		t.Parallel()

		req := newReq(http.MethodGet, "/", nil)
		out := middlewares.Timeout(time.Second)(unmatchedEndpoint)(context.Background(), req)
		require.False(t, out.Matched())
		require.Same(t, req, out.Request())
	})
}
