package pattern

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrymomot/routekit/internal"
)

// Stripped is the match context of StripPrefix.
type Stripped struct {
	// Prefix is the prefix that was removed.
	Prefix string
	// Original is the request path before stripping.
	Original string
}

// Prefix matches paths under prefix and yields the remainder, always
// starting with "/". "/api" matches "/api" and "/api/x" but not "/apix".
// The request is left untouched.
func Prefix(prefix string) internal.Router[string] {
	prefix = normalizePrefix(prefix)
	return internal.RouterFunc[string](func(_ context.Context, req *internal.Request) (string, bool) {
		return cutPrefix(req.Path, prefix)
	})
}

// StripPrefix matches like Prefix and, on a match only, rewrites req.Path to
// the remainder so that routers further down see a relative path. This is
// the one router in this package that mutates the request; an unmatched
// request is never modified.
//
// Example:
//
//	v1 := routekit.NewChain(routekit.WithRoutes(users, orders))
//	api := routekit.NewRoute[pattern.Stripped](
//	    pattern.StripPrefix("/v1"),
//	    routekit.ServiceFunc[pattern.Stripped](func(ctx context.Context, r *routekit.Request, _ pattern.Stripped) (*routekit.Response, error) {
//	        return v1.Handle(ctx, r)
//	    }),
//	)
func StripPrefix(prefix string) internal.Router[Stripped] {
	prefix = normalizePrefix(prefix)
	return internal.RouterFunc[Stripped](func(_ context.Context, req *internal.Request) (Stripped, bool) {
		rest, ok := cutPrefix(req.Path, prefix)
		if !ok {
			return Stripped{}, false
		}
		s := Stripped{Prefix: prefix, Original: req.Path}
		req.Path = rest
		return s, true
	})
}

// Method matches requests whose method is one of methods and yields it.
func Method(methods ...string) internal.Router[string] {
	allowed := slices.Clone(methods)
	for i, m := range allowed {
		allowed[i] = strings.ToUpper(m)
	}
	return internal.RouterFunc[string](func(_ context.Context, req *internal.Request) (string, bool) {
		if slices.Contains(allowed, req.Method) {
			return req.Method, true
		}
		return "", false
	})
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func cutPrefix(path, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return "", false
	}
	switch {
	case rest == "":
		return "/", true
	case rest[0] == '/':
		return rest, true
	default:
		return "", false
	}
}
