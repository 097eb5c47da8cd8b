package internal

import "context"

// Router inspects a request and reports whether it matches, producing a
// typed match context C on success.
//
// Returning true commits the match: no further routes are tried.
// A Router may mutate the request, but unless its documentation says
// otherwise it must leave no persistent change when it does not match.
// After homogenization a Router is shared by concurrent requests, so any
// internal state is the implementation's to synchronize.
//
// Example:
//
//	type apiRouter struct{}
//
//	func (apiRouter) Match(ctx context.Context, r *routekit.Request) (string, bool) {
//	    rest, ok := strings.CutPrefix(r.Path, "/api/")
//	    return rest, ok
//	}
type Router[C any] interface {
	Match(ctx context.Context, req *Request) (C, bool)
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc[C any] func(ctx context.Context, req *Request) (C, bool)

// Match calls f(ctx, req).
func (f RouterFunc[C]) Match(ctx context.Context, req *Request) (C, bool) {
	return f(ctx, req)
}

// Service handles a matched request using the context its Router produced.
//
// The service takes ownership of req and is responsible for its body.
// A returned error means no valid response could be produced; it is passed
// to the transport unchanged and never retried.
type Service[C any] interface {
	Serve(ctx context.Context, req *Request, match C) (*Response, error)
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc[C any] func(ctx context.Context, req *Request, match C) (*Response, error)

// Serve calls f(ctx, req, match).
func (f ServiceFunc[C]) Serve(ctx context.Context, req *Request, match C) (*Response, error) {
	return f(ctx, req, match)
}

// Any is a Router that matches every request with an empty context.
// It is the usual last entry of a chain.
func Any() Router[struct{}] {
	return RouterFunc[struct{}](func(context.Context, *Request) (struct{}, bool) {
		return struct{}{}, true
	})
}
