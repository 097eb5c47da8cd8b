// Package internal provides the core types and implementation for routekit.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/routekit" instead, which re-exports the public API.
//
// # Core Types
//
//   - Request: a Head (method, path, query, headers) plus a single-use Body
//   - Body: collects the inbound stream as bytes or validated text, optionally bounded
//   - Response: status, headers and a lazily produced stream of frames
//   - Router[C]: decides whether a request matches and yields a match context C
//   - Service[C]: turns a matched request and its context into a response
//   - Route[C]: a Router and Service that agree on C
//   - HomogeneousRoute: a route with C erased, storable next to any other route
//   - Chain: an ordered list of homogeneous routes, first match wins
//
// # Homogenization
//
// Routes over different context types cannot share a slice directly.
// Homogenize captures the router and service in one closure whose signature
// does not mention C:
//
//	users := routekit.NewRoute[pattern.Params](
//	    pattern.New(http.MethodGet, "/users/{id}"),
//	    routekit.ServiceFunc[pattern.Params](showUser),
//	)
//	tenants := routekit.NewRoute[hostrouter.Host](
//	    hostrouter.New("*.example.com"),
//	    tenantService,
//	)
//
//	chain := routekit.NewChain(routekit.WithRoutes(
//	    users.Homogenize(),
//	    tenants.Homogenize(),
//	))
//
// # Dispatch
//
// Chain.Dispatch offers a request to each route in order. A route that does
// not match hands the request back and the next one is tried. A route that
// matches ends dispatch with its service's result, success or failure.
// An exhausted chain returns the request unmatched; Chain.Handle applies the
// not-found fallback instead.
//
// # Bodies
//
// A body is consumed at most once:
//
//	data, err := req.Body().CollectBytes(ctx, routekit.WithMaxSize(1<<20))
//	if errors.Is(err, routekit.ErrRequestTooLarge) {
//	    return nil, routekit.NewHTTPError(http.StatusRequestEntityTooLarge, "too large", err)
//	}
//
// # Runtime
//
// Run drives any Server (net/http or fasthttp via pkg/httpx) with signal
// handling, startup and shutdown hooks and a bounded graceful shutdown.
package internal
