package pattern

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/routekit/internal"
)

// Params is the match context produced by a pattern Router.
type Params struct {
	// Pattern is the registered pattern that matched, e.g. "/users/{id}".
	Pattern string
	// Method is the request method that matched.
	Method string

	keys   []string
	values []string
}

// Get returns the value of the named URL parameter, or "".
// The catch-all segment is available as "*".
func (p Params) Get(key string) string {
	for i := len(p.keys) - 1; i >= 0; i-- {
		if p.keys[i] == key {
			return p.values[i]
		}
	}
	return ""
}

// Param returns the named URL parameter converted to T.
// Missing or malformed values yield the zero value and false.
//
//	id, ok := pattern.Param[int64](p, "id")
func Param[T internal.Scalar](p Params, key string) (T, bool) {
	raw := p.Get(key)
	if raw == "" {
		var zero T
		return zero, false
	}
	return internal.ParseValue[T](raw)
}

// Map returns all URL parameters keyed by name.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p.keys))
	for i, k := range p.keys {
		m[k] = p.values[i]
	}
	return m
}

// Router matches request paths against chi patterns.
// It never mutates the request.
type Router struct {
	mux *chi.Mux
}

var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// New returns a Router matching method and any of the given patterns.
// An empty method or "*" matches every method.
// Patterns follow chi syntax: "{name}", "{name:regexp}" and a trailing "*".
// New panics on invalid patterns, like chi does.
//
// Example:
//
//	users := routekit.NewRoute[pattern.Params](
//	    pattern.New(http.MethodGet, "/users/{id}", "/u/{id}"),
//	    routekit.ServiceFunc[pattern.Params](func(ctx context.Context, r *routekit.Request, p pattern.Params) (*routekit.Response, error) {
//	        return routekit.Text(http.StatusOK, p.Get("id")), nil
//	    }),
//	)
func New(method string, patterns ...string) *Router {
	mux := chi.NewMux()
	for _, p := range patterns {
		if method == "" || method == "*" {
			mux.Handle(p, noop)
		} else {
			mux.Method(method, p, noop)
		}
	}
	return &Router{mux: mux}
}

// Match implements routekit.Router.
func (r *Router) Match(_ context.Context, req *internal.Request) (Params, bool) {
	rctx := chi.NewRouteContext()
	path := req.Path
	if path == "" {
		path = "/"
	}
	matched := r.mux.Find(rctx, req.Method, path)
	if matched == "" {
		return Params{}, false
	}
	return Params{
		Pattern: matched,
		Method:  req.Method,
		keys:    rctx.URLParams.Keys,
		values:  rctx.URLParams.Values,
	}, true
}
