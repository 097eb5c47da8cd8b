// Package routekit composes independently typed routes into one dispatch
// chain for an HTTP server.
//
// A route pairs a [Router], which decides whether a request matches and
// produces a match context C, with a [Service] that answers the request given
// that context. Services are statically typed over C, so no route needs a
// runtime type assertion. The server still needs one ordered collection of
// routes; [Homogenize] erases C so routes over different context types can
// sit side by side in a [Chain].
//
// # Quick Start
//
//	api := routekit.NewRoute[string](
//	    routekit.RouterFunc[string](func(_ context.Context, r *routekit.Request) (string, bool) {
//	        return strings.CutPrefix(r.Path, "/api/")
//	    }),
//	    routekit.ServiceFunc[string](func(_ context.Context, _ *routekit.Request, rest string) (*routekit.Response, error) {
//	        return routekit.Text(http.StatusOK, "api: "+rest), nil
//	    }),
//	    routekit.WithName("api"),
//	)
//
//	chain := routekit.NewChain(
//	    routekit.WithRoutes(api.Homogenize()),
//	    routekit.WithNotFound(routekit.NotFound),
//	)
//
//	srv := httpx.NewServer(chain)
//	if err := routekit.Run(srv, routekit.Address(":8080")); err != nil {
//	    log.Fatal(err)
//	}
//
// # Requests and Bodies
//
// A [Request] is a [Head] (method, path, query, host, headers) plus a
// single-use [Body]. Routers inspect the head only. Services collect the body
// as bytes or validated text, optionally bounded:
//
//	data, err := req.Body().CollectBytes(ctx, routekit.WithMaxSize(1<<20))
//
// Exceeding the bound yields *RequestTooLargeError and no partial data.
// Invalid text yields *EncodingError.
//
// # Responses
//
// A [Response] is a status, headers and a lazily produced sequence of frames.
// Transports write frames as they are produced and flush between them, so
// [Stream] and [Reader] responses reach the client incrementally.
//
// # Dispatch
//
// A [Chain] calls its routes in order. The first Router that matches claims
// the request: its Service's result, success or failure, ends dispatch. An
// unmatched route hands back the very same *Request so the next route sees it
// untouched. When every route declines, the chain calls its not-found
// fallback or returns [ErrNoRoute].
//
// Chains nest: [Chain.Route] turns a chain into a single route of another.
//
// # Middleware
//
// [Middleware] wraps an [Endpoint] and sees its [Outcome]. Attach it to a
// chain with [WithMiddleware] or to one route with [WithRouteMiddleware].
// The middlewares package ships RequestID, Recover, Timeout, AccessLog and
// CORS.
//
// # Errors
//
// [StatusCode] maps the error taxonomy to HTTP status codes: 413 for
// oversized bodies, 400 for encoding and transport faults, 404 for
// [ErrNoRoute], the explicit code of an [HTTPError], and 500 otherwise.
//
// # Transports
//
// pkg/httpx adapts chains to net/http (with optional h2c) and fasthttp.
// Both run under [Run], which handles signals and graceful shutdown.
package routekit
