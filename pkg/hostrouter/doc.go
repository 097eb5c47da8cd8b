// Package hostrouter provides a host-based routekit Router.
//
// # Host Patterns
//
// Two pattern types are supported:
//
//   - Exact: "api.example.com" matches only that host
//   - Wildcard: "*.example.com" matches any subdomain (foo.example.com, bar.example.com)
//
// Exact matches take priority over wildcard matches. Host matching is case-insensitive,
// and ports are stripped before matching.
//
// # Usage
//
//	tenants := routekit.NewRoute[hostrouter.Host](
//	    hostrouter.New("*.example.com"),
//	    routekit.ServiceFunc[hostrouter.Host](func(ctx context.Context, r *routekit.Request, h hostrouter.Host) (*routekit.Response, error) {
//	        return routekit.Text(http.StatusOK, "tenant "+h.Subdomain), nil
//	    }),
//	)
//
// Order host routes before path routes in a chain when tenants get their own
// route set; a host that matches no pattern falls through to the next route.
//
// # IPv6 Support
//
// IPv6 addresses are supported. Addresses with ports like "[::1]:8080" keep
// their brackets during normalization.
package hostrouter
