package health

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/pattern"
)

// Liveness returns a service that always reports the process as up.
// It works with any match context.
func Liveness[C any]() internal.Service[C] {
	return internal.ServiceFunc[C](func(_ context.Context, req *internal.Request, _ C) (*internal.Response, error) {
		if wantsJSON(req) {
			return internal.JSON(http.StatusOK, &Report{Status: StatusHealthy}), nil
		}
		return internal.Text(http.StatusOK, "OK"), nil
	})
}

// Readiness returns a service that runs checks and answers 200 or 503.
func Readiness[C any](checks Checks, opts ...Option) internal.Service[C] {
	cfg := newConfig(opts...)
	return internal.ServiceFunc[C](func(ctx context.Context, req *internal.Request, _ C) (*internal.Response, error) {
		report := runChecks(ctx, checks, cfg)

		status := http.StatusOK
		if report.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		if wantsJSON(req) {
			return internal.JSON(status, report), nil
		}
		if report.Status == StatusHealthy {
			return internal.Text(status, "OK"), nil
		}
		return internal.Text(status, "Service Unavailable"), nil
	})
}

// Routes returns liveness and readiness routes for GET and HEAD requests,
// ready to be placed first in a chain.
//
// Example:
//
//	chain := routekit.NewChain(routekit.WithRoutes(
//	    append(health.Routes(health.Checks{
//	        "postgres": pool.Ping,
//	    }), api.Homogenize())...,
//	))
func Routes(checks Checks, opts ...Option) []internal.HomogeneousRoute {
	cfg := newConfig(opts...)

	live := internal.NewRoute[pattern.Params](
		pattern.New("", cfg.livenessPath),
		Liveness[pattern.Params](),
		internal.WithName("health.live"),
	)
	ready := internal.NewRoute[pattern.Params](
		pattern.New("", cfg.readinessPath),
		Readiness[pattern.Params](checks, opts...),
		internal.WithName("health.ready"),
	)

	onlyReads := func(next internal.Endpoint) internal.Endpoint {
		return func(ctx context.Context, req *internal.Request) internal.Outcome {
			if req.Method != http.MethodGet && req.Method != http.MethodHead {
				return internal.Unmatched(req)
			}
			return next(ctx, req)
		}
	}

	return []internal.HomogeneousRoute{
		live.Homogenize().With(onlyReads),
		ready.Homogenize().With(onlyReads),
	}
}

func wantsJSON(req *internal.Request) bool {
	if req.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}
