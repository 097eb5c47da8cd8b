package pattern_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/pattern"
)

func TestPrefix(t *testing.T) {
	t.Parallel()

	r := pattern.Prefix("/api/")

	tests := []struct {
		path     string
		wantRest string
		wantOK   bool
	}{
		{"/api", "/", true},
		{"/api/", "/", true},
		{"/api/users/1", "/users/1", true},
		{"/apix", "", false},
		{"/other", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			rq := req(http.MethodGet, tt.path)
			rest, ok := r.Match(context.Background(), rq)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantRest, rest)
			require.Equal(t, tt.path, rq.Path)
		})
	}
}

func TestStripPrefix(t *testing.T) {
	t.Parallel()

	t.Run("mutates on match", func(t *testing.T) {
		t.Parallel()
		rq := req(http.MethodGet, "/v1/users")
		s, ok := pattern.StripPrefix("v1").Match(context.Background(), rq)
		require.True(t, ok)
		require.Equal(t, "/v1", s.Prefix)
		require.Equal(t, "/v1/users", s.Original)
		require.Equal(t, "/users", rq.Path)
	})

	t.Run("leaves unmatched request alone", func(t *testing.T) {
		t.Parallel()
		rq := req(http.MethodGet, "/v2/users")
		_, ok := pattern.StripPrefix("/v1").Match(context.Background(), rq)
		require.False(t, ok)
		require.Equal(t, "/v2/users", rq.Path)
	})

	t.Run("mounts a sub-chain", func(t *testing.T) {
		t.Parallel()
		users := internal.NewRoute[pattern.Params](
			pattern.New(http.MethodGet, "/users"),
			internal.ServiceFunc[pattern.Params](func(context.Context, *internal.Request, pattern.Params) (*internal.Response, error) {
				return internal.Text(http.StatusOK, "users"), nil
			}),
		)
		v1 := internal.NewChain(internal.WithRoutes(users.Homogenize()))
		mount := internal.NewRoute[pattern.Stripped](
			pattern.StripPrefix("/v1"),
			internal.ServiceFunc[pattern.Stripped](func(ctx context.Context, r *internal.Request, _ pattern.Stripped) (*internal.Response, error) {
				return v1.Handle(ctx, r)
			}),
		)

		resp, err := mount.Homogenize().Call(context.Background(), req(http.MethodGet, "/v1/users")).Result()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status)
	})
}

func TestMethod(t *testing.T) {
	t.Parallel()

	r := pattern.Method("get", http.MethodHead)

	m, ok := r.Match(context.Background(), req(http.MethodGet, "/"))
	require.True(t, ok)
	require.Equal(t, http.MethodGet, m)

	_, ok = r.Match(context.Background(), req(http.MethodHead, "/"))
	require.True(t, ok)

	_, ok = r.Match(context.Background(), req(http.MethodPost, "/"))
	require.False(t, ok)
}
