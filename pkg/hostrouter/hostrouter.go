package hostrouter

import (
	"context"
	"strings"

	"github.com/dmitrymomot/routekit/internal"
)

// Host is the match context produced by Router.
type Host struct {
	// Name is the normalized request host: lowercase, port stripped.
	Name string
	// Pattern is the host pattern that matched, e.g. "*.example.com".
	Pattern string
	// Subdomain is the label matched by a wildcard pattern, or "" for an exact match.
	Subdomain string
}

// Router matches requests by their Host header.
// Exact patterns take priority over wildcard patterns.
type Router struct {
	exact    map[string]string // "api.example.com" -> pattern
	wildcard map[string]string // "example.com" -> "*.example.com"
}

// New creates a host router from the given patterns.
//
//   - Exact: "api.example.com" matches only that host
//   - Wildcard: "*.example.com" matches one label under example.com
//
// Blank patterns are ignored.
func New(patterns ...string) *Router {
	r := &Router{
		exact:    make(map[string]string),
		wildcard: make(map[string]string),
	}

	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if domain, ok := strings.CutPrefix(pattern, "*."); ok {
			r.wildcard[domain] = pattern
		} else {
			r.exact[pattern] = pattern
		}
	}

	return r
}

// Match implements routekit.Router. The request is never modified.
func (r *Router) Match(_ context.Context, req *internal.Request) (Host, bool) {
	host := Domain(req)
	if host == "" {
		return Host{}, false
	}

	if pattern, ok := r.exact[host]; ok {
		return Host{Name: host, Pattern: pattern}, true
	}

	// *.example.com matches foo.example.com but not a.b.example.com
	if _, domain, ok := strings.Cut(host, "."); ok {
		if pattern, ok := r.wildcard[domain]; ok {
			return Host{Name: host, Pattern: pattern, Subdomain: Subdomain(req, domain)}, true
		}
	}

	return Host{}, false
}

// normalizeHost strips the port and converts to lowercase.
func normalizeHost(host string) string {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		// Check it's not an IPv6 address
		if !strings.Contains(host[idx:], "]") {
			host = host[:idx]
		}
	}
	return strings.ToLower(host)
}
