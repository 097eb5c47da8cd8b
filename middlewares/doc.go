// Package middlewares provides dispatch middleware for routekit chains.
//
// Every middleware here has the routekit.Middleware shape: it wraps an
// Endpoint and sees the Outcome of the routes below it, matched or not.
// Install them on a whole chain with routekit.WithMiddleware or on a
// single route with routekit.WithRouteMiddleware.
//
// # Request ID
//
// RequestID reads an incoming X-Request-ID (or X-Correlation-ID) header,
// generates a UUIDv7 when none is present, stores it in the context and
// echoes it on the response.
//
//	chain := routekit.NewChain(
//	    routekit.WithRoutes(api, static),
//	    routekit.WithMiddleware(middlewares.RequestID()),
//	)
//
// Use RequestIDExtractor and RouteNameExtractor with logger.New so every
// record carries request_id and route:
//
//	log := logger.New(cfg.Log,
//	    middlewares.RequestIDExtractor(),
//	    middlewares.RouteNameExtractor(),
//	)
//
// # Recover
//
// Recover turns a panic in a router or service into a matched failure
// carrying *PanicError (500). The panic is logged and, when a Sentry client
// is bound to the hub, reported there.
//
// # Timeout
//
// Timeout bounds the time to produce a response. On expiry it yields a
// matched failure with *TimeoutError (503). The deadline remains on the
// context until the response stream has been drained.
//
// Timeout runs the wrapped endpoint on its own goroutine, so place Recover
// inside it:
//
//	routekit.WithMiddleware(
//	    middlewares.Timeout(10*time.Second),
//	    middlewares.Recover(middlewares.WithRecoverLogger(log)),
//	)
//
// # Access log
//
// AccessLog writes one record per dispatch: info for served requests, error
// for failures and debug for requests no route claimed.
//
// # CORS
//
// CORS answers preflight requests before routing and decorates matched
// responses with the configured Access-Control-* headers.
//
//	middlewares.CORS(
//	    middlewares.WithAllowOrigins("https://app.example.com"),
//	    middlewares.WithAllowCredentials(),
//	)
package middlewares
