// Package pattern provides path-based routers for routekit.
//
// New matches chi route patterns and produces Params with the URL
// parameters. Prefix, StripPrefix and Method are small building blocks for
// mounting sub-chains and filtering by method.
//
// Basic usage:
//
//	show := routekit.NewRoute[pattern.Params](
//	    pattern.New(http.MethodGet, "/posts/{slug}"),
//	    postService,
//	)
//	chain := routekit.NewChain(routekit.WithRoutes(show.Homogenize()))
//
// Only StripPrefix mutates the request, and only when it matches.
package pattern
