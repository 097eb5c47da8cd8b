package internal

import (
	"context"
	"slices"
)

// Endpoint is the uniform signature every homogenized route shares,
// whatever match context its router produced.
type Endpoint func(ctx context.Context, req *Request) Outcome

// Middleware wraps an Endpoint to add cross-cutting concerns.
// Middleware may inspect the request, short-circuit, or rewrite the outcome.
//
// Example:
//
//	func Timing(log *slog.Logger) routekit.Middleware {
//	    return func(next routekit.Endpoint) routekit.Endpoint {
//	        return func(ctx context.Context, r *routekit.Request) routekit.Outcome {
//	            start := time.Now()
//	            out := next(ctx, r)
//	            log.InfoContext(ctx, "dispatch", "path", r.Path, "took", time.Since(start))
//	            return out
//	        }
//	    }
//	}
type Middleware func(next Endpoint) Endpoint

// chainMiddleware applies mw so that the first entry is the outermost wrapper.
func chainMiddleware(e Endpoint, mw []Middleware) Endpoint {
	mw = slices.Clone(mw)
	slices.Reverse(mw)
	for _, m := range mw {
		if m != nil {
			e = m(e)
		}
	}
	return e
}

// Outcome is the result of offering a request to a homogenized route.
// It is exactly one of: matched with a response, matched with an error,
// or unmatched with the original request handed back.
type Outcome struct {
	err      error
	response *Response
	request  *Request
	route    string
	matched  bool
}

// Matched builds a matched outcome. A nil response with a nil error is
// recorded as ErrNilResponse.
func Matched(resp *Response, err error) Outcome {
	if err != nil {
		return Outcome{err: err, matched: true}
	}
	if resp == nil {
		return Outcome{err: ErrNilResponse, matched: true}
	}
	return Outcome{response: resp, matched: true}
}

// Unmatched builds an outcome that returns req to the caller.
func Unmatched(req *Request) Outcome {
	return Outcome{request: req}
}

// Matched reports whether a router committed to the request.
func (o Outcome) Matched() bool { return o.matched }

// Response returns the response of a successful match, or nil.
func (o Outcome) Response() *Response { return o.response }

// Err returns the failure of a matched route, or nil.
func (o Outcome) Err() error { return o.err }

// Request returns the request handed back by an unmatched route, or nil.
func (o Outcome) Request() *Request { return o.request }

// Route returns the name of the innermost route that matched, or "".
func (o Outcome) Route() string { return o.route }

// WithResponse returns a copy of a successful outcome carrying resp
// instead. Other outcomes and nil responses are returned unchanged.
func (o Outcome) WithResponse(resp *Response) Outcome {
	if o.response != nil && resp != nil {
		o.response = resp
	}
	return o
}

// Result returns the response and error of a matched outcome.
// For an unmatched outcome it returns ErrNoRoute.
func (o Outcome) Result() (*Response, error) {
	if !o.Matched() {
		return nil, ErrNoRoute
	}
	return o.response, o.err
}

// Route pairs a Router and a Service that agree on the match context C.
// It is a builder value: homogenize it to store it next to other routes.
type Route[C any] struct {
	router  Router[C]
	service Service[C]
	cfg     routeConfig
}

// RouteOption configures a Route.
type RouteOption func(*routeConfig)

type routeConfig struct {
	name        string
	middlewares []Middleware
}

// WithName sets the route name used in logs and metrics.
func WithName(name string) RouteOption {
	return func(c *routeConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithRouteMiddleware wraps the homogenized route with middleware.
// The first middleware is the outermost.
func WithRouteMiddleware(mw ...Middleware) RouteOption {
	return func(c *routeConfig) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

// NewRoute pairs router and service. Both must be non-nil.
//
// Example:
//
//	route := routekit.NewRoute[pattern.Params](
//	    pattern.New(http.MethodGet, "/users/{id}"),
//	    routekit.ServiceFunc[pattern.Params](showUser),
//	    routekit.WithName("users.show"),
//	)
func NewRoute[C any](router Router[C], service Service[C], opts ...RouteOption) Route[C] {
	if router == nil || service == nil {
		panic("routekit: NewRoute requires a router and a service")
	}
	cfg := routeConfig{name: "route"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return Route[C]{router: router, service: service, cfg: cfg}
}

// Homogenize erases the route's match context type. See Homogenize.
func (rt Route[C]) Homogenize() HomogeneousRoute {
	return Homogenize(rt)
}

// Homogenize converts a typed route into a HomogeneousRoute.
//
// The router and service are captured as interface values, keeping C but
// hiding their concrete types; one closure then runs the router and, on a
// match, the service. The closure's signature does not mention C, so routes
// over unrelated contexts can share a slice.
func Homogenize[C any](rt Route[C]) HomogeneousRoute {
	router, service := rt.router, rt.service

	call := func(ctx context.Context, req *Request) Outcome {
		match, ok := router.Match(ctx, req)
		if !ok {
			return Unmatched(req)
		}
		return Matched(service.Serve(ctx, req, match))
	}

	return HomogeneousRoute{
		name: rt.cfg.name,
		call: chainMiddleware(call, rt.cfg.middlewares),
	}
}

// HomogeneousRoute is a route whose match context type has been erased.
// It is immutable and safe to invoke from concurrent requests; copies share
// the same underlying router and service.
type HomogeneousRoute struct {
	call Endpoint
	name string
}

// NewHomogeneousRoute wraps an arbitrary endpoint as a named route.
func NewHomogeneousRoute(name string, e Endpoint) HomogeneousRoute {
	return HomogeneousRoute{name: name, call: e}
}

// Name returns the route name.
func (h HomogeneousRoute) Name() string { return h.name }

// Call offers req to the route. The route name is available to middleware
// and services through RouteName(ctx).
func (h HomogeneousRoute) Call(ctx context.Context, req *Request) Outcome {
	if h.call == nil {
		return Unmatched(req)
	}
	out := h.call(withRouteName(ctx, h.name), req)
	if out.Matched() && out.route == "" {
		out.route = h.name
	}
	return out
}

// Endpoint returns the route's callable.
func (h HomogeneousRoute) Endpoint() Endpoint { return h.Call }

// With returns a copy of the route wrapped in additional middleware.
func (h HomogeneousRoute) With(mw ...Middleware) HomogeneousRoute {
	if h.call == nil {
		return h
	}
	return HomogeneousRoute{name: h.name, call: chainMiddleware(h.call, mw)}
}

type routeNameKey struct{}

func withRouteName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, routeNameKey{}, name)
}

// RouteName returns the name of the route currently handling ctx, or "".
func RouteName(ctx context.Context) string {
	name, _ := ctx.Value(routeNameKey{}).(string)
	return name
}
