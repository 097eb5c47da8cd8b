package routetable_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/routetable"
)

const table = `
routes:
  - name: robots
    method: get
    path: /robots.txt
    body: "User-agent: *\nDisallow:\n"
    headers:
      Cache-Control: max-age=3600
  - path: /old/{page}
    redirect: https://docs.example.com/{page}
    status: 301
  - path: /hello/{name}
    content_type: application/json
    body: '{"hello":"{name}"}'
`

func get(path string) *internal.Request {
	return internal.NewRequest(internal.Head{Method: http.MethodGet, Path: path}, nil)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tbl, err := routetable.Load(strings.NewReader(table))
	require.NoError(t, err)
	require.Len(t, tbl.Routes, 3)

	require.Equal(t, http.MethodGet, tbl.Routes[0].Method)
	require.Equal(t, "text/plain; charset=utf-8", tbl.Routes[0].ContentType)
	require.Equal(t, http.StatusOK, tbl.Routes[0].Status)
	require.Equal(t, "/old/{page}", tbl.Routes[1].Name)
	require.Equal(t, http.StatusMovedPermanently, tbl.Routes[1].Status)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "routes:\n  - path: /a\n    bogus: 1\n"},
		{"relative path", "routes:\n  - path: a\n"},
		{"body and redirect", "routes:\n  - path: /a\n    body: x\n    redirect: /b\n"},
		{"status out of range", "routes:\n  - path: /a\n    status: 999\n"},
		{"redirect without 3xx", "routes:\n  - path: /a\n    redirect: /b\n    status: 200\n"},
		{"malformed yaml", "routes: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := routetable.Load(strings.NewReader(tt.yaml))
			require.ErrorIs(t, err, routetable.ErrInvalidTable)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	t.Parallel()

	tbl, err := routetable.Load(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, tbl.Homogenize())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(table), 0o600))

	tbl, err := routetable.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, tbl.Routes, 3)

	_, err = routetable.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, routetable.ErrNotFound)
}

func TestTable_Homogenize(t *testing.T) {
	t.Parallel()

	tbl, err := routetable.Load(strings.NewReader(table))
	require.NoError(t, err)
	chain := internal.NewChain(internal.WithRoutes(tbl.Homogenize()...))
	ctx := context.Background()

	out := chain.Dispatch(ctx, get("/robots.txt"))
	require.Equal(t, "robots", out.Route())
	resp, err := out.Result()
	require.NoError(t, err)
	require.Equal(t, "max-age=3600", resp.Header.Get("Cache-Control"))
	body, err := internal.CollectFrames(resp.Frames())
	require.NoError(t, err)
	require.Equal(t, "User-agent: *\nDisallow:\n", string(body))

	resp, err = chain.Handle(ctx, get("/old/intro"))
	require.NoError(t, err)
	require.Equal(t, http.StatusMovedPermanently, resp.Status)
	require.Equal(t, "https://docs.example.com/intro", resp.Header.Get("Location"))

	resp, err = chain.Handle(ctx, get("/hello/ana"))
	require.NoError(t, err)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body, err = internal.CollectFrames(resp.Frames())
	require.NoError(t, err)
	require.JSONEq(t, `{"hello":"ana"}`, string(body))

	// robots is GET only
	_, err = chain.Handle(ctx, internal.NewRequest(internal.Head{Method: http.MethodPost, Path: "/robots.txt"}, nil))
	require.ErrorIs(t, err, internal.ErrNoRoute)
}
