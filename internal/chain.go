package internal

import (
	"context"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/routekit/pkg/logger"
)

// Chain is an ordered list of homogenized routes tried one after another.
// The first route whose router matches decides the outcome; later routes are
// not consulted. Order is kept exactly as configured.
//
// A Chain is immutable after NewChain and safe for concurrent use.
type Chain struct {
	logger      *slog.Logger
	notFound    HandlerFunc
	dispatch    Endpoint
	handle      Endpoint
	routes      []HomogeneousRoute
	middlewares []Middleware
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithRoutes appends routes to the chain in the given order.
//
// Example:
//
//	chain := routekit.NewChain(
//	    routekit.WithRoutes(
//	        api.Homogenize(),
//	        fallback.Homogenize(),
//	    ),
//	)
func WithRoutes(routes ...HomogeneousRoute) ChainOption {
	return func(c *Chain) {
		c.routes = append(c.routes, routes...)
	}
}

// WithMiddleware wraps the whole chain with middleware.
// The first middleware is the outermost.
func WithMiddleware(mw ...Middleware) ChainOption {
	return func(c *Chain) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

// WithNotFound sets the fallback used by Handle when no route matches.
func WithNotFound(h HandlerFunc) ChainOption {
	return func(c *Chain) {
		if h != nil {
			c.notFound = h
		}
	}
}

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(l *slog.Logger) ChainOption {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChain builds a chain from options.
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.routes = slices.Clip(slices.Clone(c.routes))

	c.dispatch = chainMiddleware(c.iterate, c.middlewares)
	c.handle = chainMiddleware(c.iterateWithFallback, c.middlewares)
	return c
}

// Routes returns a copy of the configured routes in order.
func (c *Chain) Routes() []HomogeneousRoute {
	return slices.Clone(c.routes)
}

// Dispatch offers req to each route in order and returns the first matched
// outcome. If every route declines, the outcome is unmatched and carries req.
func (c *Chain) Dispatch(ctx context.Context, req *Request) Outcome {
	return c.dispatch(ctx, req)
}

// Handle dispatches req and applies the not-found fallback when no route
// matches. Without a fallback it fails with ErrNoRoute.
func (c *Chain) Handle(ctx context.Context, req *Request) (*Response, error) {
	return c.handle(ctx, req).Result()
}

// Route exposes the chain as a single route, so chains can be nested.
// The nested chain's not-found fallback is not used: an exhausted inner
// chain reports unmatched and the outer chain moves on.
func (c *Chain) Route(name string) HomogeneousRoute {
	return NewHomogeneousRoute(name, c.Dispatch)
}

func (c *Chain) iterate(ctx context.Context, req *Request) Outcome {
	for _, route := range c.routes {
		out := route.Call(ctx, req)
		if !out.Matched() {
			// Routers hand the request back; keep offering the same one.
			if r := out.Request(); r != nil {
				req = r
			}
			continue
		}

		if err := out.Err(); err != nil {
			c.logger.ErrorContext(ctx, "route failed",
				slog.String("route", out.Route()),
				slog.String("path", req.Path),
				slog.Any("error", err),
			)
		} else {
			c.logger.DebugContext(ctx, "route matched",
				slog.String("route", out.Route()),
				slog.String("path", req.Path),
				slog.Int("status", out.Response().Status),
			)
		}
		return out
	}
	return Unmatched(req)
}

func (c *Chain) iterateWithFallback(ctx context.Context, req *Request) Outcome {
	out := c.iterate(ctx, req)
	if out.Matched() {
		return out
	}

	req = out.Request()
	c.logger.DebugContext(ctx, "no route matched",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
	)
	if c.notFound == nil {
		return Matched(nil, ErrNoRoute)
	}
	return Matched(c.notFound(ctx, req))
}
