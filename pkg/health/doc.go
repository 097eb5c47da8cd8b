// Package health provides liveness and readiness probes as routekit routes.
//
// Liveness always answers OK while the process runs. Readiness executes a set
// of named Checks in parallel under a shared timeout and answers 503 when any
// of them fails.
//
// # Quick Start
//
//	routes := health.Routes(health.Checks{
//	    "postgres": pool.Ping,
//	    "redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
//	}, health.WithLogger(log))
//
// Routes answers GET and HEAD on "/health/live" and "/health/ready". The
// services are generic over the match context, so they can also be paired
// with any other router:
//
//	live := routekit.NewRoute[hostrouter.Host](hostrouter.New("health.internal"), health.Liveness[hostrouter.Host]())
//
// # Response Formats
//
// Plain text by default ("OK" or "Service Unavailable"). JSON is returned
// for Accept: application/json or ?format=json:
//
//	{
//	  "status": "healthy",
//	  "checks": {
//	    "postgres": {"status": "healthy"},
//	    "redis": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
package health
