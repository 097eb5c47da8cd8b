// Package metrics records Prometheus metrics for routekit dispatch.
//
// A Collector provides an endpoint middleware that counts dispatches by
// route name, outcome (ok, error, unmatched) and status code, tracks
// latency in a histogram and keeps an in-flight gauge:
//
//	m := metrics.New()
//	chain := routekit.NewChain(
//		routekit.WithRoutes(routes...),
//		routekit.WithMiddleware(m.Middleware()),
//	)
//
// Handler serves the registry; mount it with httpx.Mount or on a separate
// admin listener.
package metrics
