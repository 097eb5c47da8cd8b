package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/middlewares"
	"github.com/dmitrymomot/routekit/pkg/health"
	"github.com/dmitrymomot/routekit/pkg/hostrouter"
	"github.com/dmitrymomot/routekit/pkg/httpx"
	"github.com/dmitrymomot/routekit/pkg/metrics"
	"github.com/dmitrymomot/routekit/pkg/pattern"
	"github.com/dmitrymomot/routekit/pkg/principal"
	"github.com/dmitrymomot/routekit/pkg/routetable"
	"github.com/dmitrymomot/routekit/pkg/storage"
)

const (
	scopeFilesRead  = "files:read"
	scopeFilesWrite = "files:write"
	realm           = "routekitd"
)

type deps struct {
	log         *slog.Logger
	checks      health.Checks
	metrics     *metrics.Collector
	store       principal.Store
	resolver    principal.Resolver
	objects     storage.API
	table       *routetable.Table
	bucket      string
	hosts       []string
	corsOrigins []string
	timeout     time.Duration
	maxBodySize int64
}

// authorized is the match context of routes that need both a path match
// and a resolved principal.
type authorized struct {
	Params    pattern.Params
	Principal principal.Principal
}

// protect matches path first and only then resolves the token, so requests
// for other paths never reach the resolver.
func protect(path *pattern.Router, auth *principal.Router) routekit.Router[authorized] {
	return routekit.RouterFunc[authorized](func(ctx context.Context, req *routekit.Request) (authorized, bool) {
		p, ok := path.Match(ctx, req)
		if !ok {
			return authorized{}, false
		}
		who, ok := auth.Match(ctx, req)
		if !ok {
			return authorized{}, false
		}
		return authorized{Params: p, Principal: who}, true
	})
}

// buildChain assembles the daemon's routes. Health probes and metrics answer
// for any host; everything else is gated by the host allow-list when set.
func buildChain(d deps) *routekit.Chain {
	routes := health.Routes(d.checks, health.WithLogger(d.log))
	routes = append(routes, routekit.NewRoute[pattern.Params](
		pattern.New(http.MethodGet, "/metrics"),
		httpx.Mount[pattern.Params](d.metrics.Handler()),
		routekit.WithName("metrics"),
	).Homogenize())

	app := routekit.NewChain(
		routekit.WithRoutes(appRoutes(d)...),
		routekit.WithLogger(d.log),
	)
	if len(d.hosts) == 0 {
		routes = append(routes, app.Route("app"))
	} else {
		routes = append(routes, routekit.NewRoute[hostrouter.Host](
			hostrouter.New(d.hosts...),
			routekit.ServiceFunc[hostrouter.Host](func(ctx context.Context, req *routekit.Request, _ hostrouter.Host) (*routekit.Response, error) {
				return app.Handle(ctx, req)
			}),
			routekit.WithName("hosts"),
		).Homogenize())
	}

	// Recover stays innermost so it runs on the goroutine Timeout spawns.
	mw := []routekit.Middleware{middlewares.RequestID()}
	if len(d.corsOrigins) > 0 {
		mw = append(mw, middlewares.CORS(
			middlewares.WithAllowOrigins(d.corsOrigins...),
			middlewares.WithAllowHeaders("Authorization", "Content-Type", "X-Request-ID"),
		))
	}
	mw = append(mw,
		middlewares.AccessLog(d.log),
		d.metrics.Middleware(),
		middlewares.Timeout(d.timeout, middlewares.WithTimeoutLogger(d.log)),
		middlewares.Recover(middlewares.WithRecoverLogger(d.log)),
	)

	return routekit.NewChain(
		routekit.WithRoutes(routes...),
		routekit.WithMiddleware(mw...),
		routekit.WithNotFound(routekit.NotFound),
		routekit.WithLogger(d.log),
	)
}

func appRoutes(d deps) []routekit.HomogeneousRoute {
	readers := principal.NewRouter(d.resolver,
		principal.WithStore(d.store),
		principal.WithScopes(scopeFilesRead),
		principal.WithLogger(d.log),
	)
	writers := principal.NewRouter(d.resolver,
		principal.WithStore(d.store),
		principal.WithScopes(scopeFilesWrite),
		principal.WithLogger(d.log),
	)

	var routes []routekit.HomogeneousRoute

	routes = append(routes, routekit.NewRoute[authorized](
		protect(pattern.New(http.MethodGet, "/whoami"), readers),
		routekit.ServiceFunc[authorized](func(_ context.Context, _ *routekit.Request, a authorized) (*routekit.Response, error) {
			return routekit.JSON(http.StatusOK, a.Principal), nil
		}),
		routekit.WithName("whoami"),
	).Homogenize())

	if d.objects != nil {
		routes = append(routes,
			routekit.NewRoute[authorized](
				protect(pattern.New(http.MethodGet, "/files/*"), readers),
				storage.Download[authorized](d.objects, d.bucket, func(a authorized) string {
					return a.Params.Get("*")
				}, storage.WithLogger(d.log)),
				routekit.WithName("files.download"),
			).Homogenize(),
			routekit.NewRoute[authorized](
				protect(pattern.New(http.MethodPost, "/files", "/files/*"), writers),
				storage.Upload[authorized](d.objects, d.bucket, func(a authorized) string {
					return a.Params.Get("*")
				}, storage.WithKeyPrefix("uploads"), storage.WithMaxUploadSize(d.maxBodySize), storage.WithLogger(d.log)),
				routekit.WithName("files.upload"),
			).Homogenize(),
		)
	}

	// Anything under the protected prefixes that no route above claimed
	// lacked valid credentials.
	routes = append(routes, routekit.NewRoute[pattern.Params](
		pattern.New("", "/whoami", "/files", "/files/*"),
		principal.Challenge[pattern.Params](realm),
		routekit.WithName("challenge"),
	).Homogenize())

	if d.table != nil {
		routes = append(routes, d.table.Homogenize()...)
	}
	return routes
}
