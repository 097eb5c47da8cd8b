package pattern_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/pattern"
)

func req(method, path string) *internal.Request {
	return internal.NewRequest(internal.Head{Method: method, Path: path}, nil)
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := pattern.New(http.MethodGet, "/users/{id}", "/teams/{team}/members/{id:[0-9]+}", "/files/*")

	tests := []struct {
		name        string
		method      string
		path        string
		wantOK      bool
		wantPattern string
		wantParams  map[string]string
	}{
		{"simple param", http.MethodGet, "/users/42", true, "/users/{id}", map[string]string{"id": "42"}},
		{"regexp param", http.MethodGet, "/teams/core/members/7", true, "/teams/{team}/members/{id:[0-9]+}", map[string]string{"team": "core", "id": "7"}},
		{"regexp mismatch", http.MethodGet, "/teams/core/members/bob", false, "", nil},
		{"wildcard", http.MethodGet, "/files/a/b.txt", true, "/files/*", map[string]string{"*": "a/b.txt"}},
		{"wrong method", http.MethodPost, "/users/42", false, "", nil},
		{"unknown path", http.MethodGet, "/nope", false, "", nil},
		{"unknown method", "BREW", "/users/1", false, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, ok := r.Match(context.Background(), req(tt.method, tt.path))
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			require.Equal(t, tt.wantPattern, p.Pattern)
			require.Equal(t, tt.method, p.Method)
			require.Equal(t, tt.wantParams, p.Map())
			for k, v := range tt.wantParams {
				require.Equal(t, v, p.Get(k))
			}
		})
	}
}

func TestNew_AnyMethod(t *testing.T) {
	t.Parallel()

	r := pattern.New("", "/health")
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		_, ok := r.Match(context.Background(), req(m, "/health"))
		require.True(t, ok, m)
	}
}

func TestNew_DoesNotMutate(t *testing.T) {
	t.Parallel()

	r := pattern.New(http.MethodGet, "/a/{x}")
	rq := req(http.MethodGet, "/a/1")
	_, ok := r.Match(context.Background(), rq)
	require.True(t, ok)
	require.Equal(t, "/a/1", rq.Path)
}

func TestNew_PanicsOnInvalidPattern(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { pattern.New(http.MethodGet, "no-slash") })
}

func TestParams_GetMissing(t *testing.T) {
	t.Parallel()

	var p pattern.Params
	require.Empty(t, p.Get("id"))
	require.Empty(t, p.Map())
}

func TestParam(t *testing.T) {
	t.Parallel()

	p, ok := pattern.New(http.MethodGet, "/orders/{id}/{flag}").Match(context.Background(), req(http.MethodGet, "/orders/17/true"))
	require.True(t, ok)

	id, ok := pattern.Param[int64](p, "id")
	require.True(t, ok)
	require.Equal(t, int64(17), id)

	flag, ok := pattern.Param[bool](p, "flag")
	require.True(t, ok)
	require.True(t, flag)

	_, ok = pattern.Param[int](p, "flag")
	require.False(t, ok)

	_, ok = pattern.Param[string](p, "missing")
	require.False(t, ok)
}

func TestPatternRouteInChain(t *testing.T) {
	t.Parallel()

	show := internal.NewRoute[pattern.Params](
		pattern.New(http.MethodGet, "/users/{id}"),
		internal.ServiceFunc[pattern.Params](func(_ context.Context, _ *internal.Request, p pattern.Params) (*internal.Response, error) {
			return internal.Text(http.StatusOK, "user "+p.Get("id")), nil
		}),
	)
	chain := internal.NewChain(internal.WithRoutes(show.Homogenize()))

	resp, err := chain.Handle(context.Background(), req(http.MethodGet, "/users/9"))
	require.NoError(t, err)
	body, err := internal.CollectFrames(resp.Frames())
	require.NoError(t, err)
	require.Equal(t, "user 9", string(body))

	_, err = chain.Handle(context.Background(), req(http.MethodGet, "/posts/9"))
	require.ErrorIs(t, err, internal.ErrNoRoute)
}
