package internal_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
)

func headReq(rawQuery string, headers map[string]string) *internal.Request {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return internal.NewRequest(internal.Head{Method: http.MethodGet, Path: "/", RawQuery: rawQuery, Header: h}, nil)
}

func TestExtractorSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  internal.ExtractorSource
		query   string
		headers map[string]string
		want    string
		wantOK  bool
	}{
		{"header present", internal.FromHeader("X-Tenant"), "", map[string]string{"X-Tenant": " acme "}, "acme", true},
		{"header missing", internal.FromHeader("X-Tenant"), "", nil, "", false},
		{"query present", internal.FromQuery("token"), "token=abc&x=1", nil, "abc", true},
		{"query empty value", internal.FromQuery("token"), "token=", nil, "", false},
		{"query missing", internal.FromQuery("token"), "", nil, "", false},
		{"cookie present", internal.FromCookie("sid"), "", map[string]string{"Cookie": "a=1; sid=xyz"}, "xyz", true},
		{"cookie missing", internal.FromCookie("sid"), "", map[string]string{"Cookie": "a=1"}, "", false},
		{"cookie header absent", internal.FromCookie("sid"), "", nil, "", false},
		{"bearer", internal.FromBearerToken(), "", map[string]string{"Authorization": "Bearer t0k"}, "t0k", true},
		{"bearer case insensitive", internal.FromBearerToken(), "", map[string]string{"Authorization": "bearer t0k"}, "t0k", true},
		{"bearer wrong scheme", internal.FromBearerToken(), "", map[string]string{"Authorization": "Basic dXNlcg=="}, "", false},
		{"bearer without token", internal.FromBearerToken(), "", map[string]string{"Authorization": "Bearer "}, "", false},
		{"custom scheme", internal.FromAuthScheme("X-Auth", "Token"), "", map[string]string{"X-Auth": "Token k"}, "k", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.source(headReq(tt.query, tt.headers))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractor_FirstMatchWins(t *testing.T) {
	t.Parallel()

	ex := internal.NewExtractor(
		internal.FromHeader("X-Request-ID"),
		internal.FromQuery("rid"),
	)
	require.False(t, ex.Empty())

	v, ok := ex.Extract(headReq("rid=from-query", map[string]string{"X-Request-ID": "from-header"}))
	require.True(t, ok)
	require.Equal(t, "from-header", v)

	v, ok = ex.Extract(headReq("rid=from-query", nil))
	require.True(t, ok)
	require.Equal(t, "from-query", v)

	_, ok = ex.Extract(headReq("", nil))
	require.False(t, ok)
}

func TestExtractor_Empty(t *testing.T) {
	t.Parallel()

	ex := internal.NewExtractor()
	require.True(t, ex.Empty())
	_, ok := ex.Extract(headReq("", nil))
	require.False(t, ok)
}
