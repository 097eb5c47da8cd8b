package routekit

import (
	"context"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/dmitrymomot/routekit/internal"
)

// Type aliases - public API
type (
	// Head is the request metadata: method, path, query, host and headers.
	Head = internal.Head

	// Request owns one Head and one single-use Body.
	Request = internal.Request

	// Body is the single-use inbound byte stream of a request.
	Body = internal.Body

	// CollectOption configures Body collection.
	CollectOption = internal.CollectOption

	// Response is a status, headers and a lazily produced stream of frames.
	Response = internal.Response

	// Frames is the outbound body stream of a Response.
	Frames = internal.Frames

	// Handler turns a request into a response. *Chain implements it.
	Handler = internal.Handler

	// HandlerFunc adapts a function to Handler.
	HandlerFunc = internal.HandlerFunc

	// ErrorHandler converts a dispatch error into a wire response.
	ErrorHandler = internal.ErrorHandler

	// Endpoint is a homogenized route call.
	Endpoint = internal.Endpoint

	// Middleware wraps an Endpoint.
	Middleware = internal.Middleware

	// Outcome is the result of calling an Endpoint: a response, a failure,
	// or the untouched request when nothing matched.
	Outcome = internal.Outcome

	// HomogeneousRoute is a route with its match context type erased.
	HomogeneousRoute = internal.HomogeneousRoute

	// RouteOption configures a Route.
	RouteOption = internal.RouteOption

	// Chain tries its routes in order; the first match wins.
	Chain = internal.Chain

	// ChainOption configures a Chain.
	ChainOption = internal.ChainOption

	// Server is the part of a transport server that Run drives.
	Server = internal.Server

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Extractor reads a value from the first matching source.
	Extractor = internal.Extractor

	// ExtractorSource reads a single value from a request.
	ExtractorSource = internal.ExtractorSource

	// HTTPError carries an explicit status code and client-safe message.
	HTTPError = internal.HTTPError

	// TransportError reports a failure reading the inbound stream.
	TransportError = internal.TransportError

	// EncodingError reports body bytes that are invalid in the requested charset.
	EncodingError = internal.EncodingError

	// RequestTooLargeError reports a body that exceeded its size limit.
	RequestTooLargeError = internal.RequestTooLargeError
)

// Router decides whether a request matches and produces the match context C.
// Match must not consume the body.
type Router[C any] = internal.Router[C]

// RouterFunc adapts a function to Router.
type RouterFunc[C any] = internal.RouterFunc[C]

// Service answers a matched request given the context its Router produced.
type Service[C any] = internal.Service[C]

// ServiceFunc adapts a function to Service.
type ServiceFunc[C any] = internal.ServiceFunc[C]

// Route pairs a Router and a Service that agree on C.
type Route[C any] = internal.Route[C]

// Scalar lists the types typed parameter helpers convert to.
type Scalar = internal.Scalar

// Errors
var (
	ErrBodyConsumed    = internal.ErrBodyConsumed
	ErrNilResponse     = internal.ErrNilResponse
	ErrNoRoute         = internal.ErrNoRoute
	ErrTransport       = internal.ErrTransport
	ErrEncoding        = internal.ErrEncoding
	ErrRequestTooLarge = internal.ErrRequestTooLarge
)

// NewRequest builds a request from transport data. A nil body is empty.
func NewRequest(head Head, body *Body) *Request {
	return internal.NewRequest(head, body)
}

// JoinRequest reassembles a request taken apart with Request.Split.
func JoinRequest(head Head, body *Body) *Request {
	return internal.JoinRequest(head, body)
}

// NewBody wraps a transport stream. A nil reader is an empty body.
func NewBody(rc io.ReadCloser) *Body {
	return internal.NewBody(rc)
}

// WithMaxSize bounds the number of body bytes collected.
func WithMaxSize(n int64) CollectOption {
	return internal.WithMaxSize(n)
}

// WithCharset decodes the body as the named charset when collecting text.
func WithCharset(label string) CollectOption {
	return internal.WithCharset(label)
}

// Response constructors

// NewResponse creates a response with the given status and frames.
func NewResponse(status int, frames Frames) *Response {
	return internal.NewResponse(status, frames)
}

// Empty returns a response without a body.
func Empty(status int) *Response { return internal.Empty(status) }

// Text returns a text/plain response.
func Text(status int, s string) *Response { return internal.Text(status, s) }

// Bytes returns a single-frame response with the given content type.
func Bytes(status int, contentType string, b []byte) *Response {
	return internal.Bytes(status, contentType, b)
}

// JSON returns a response that encodes v when its frames are read.
func JSON(status int, v any) *Response { return internal.JSON(status, v) }

// Stream returns a response backed by frames.
func Stream(status int, contentType string, frames Frames) *Response {
	return internal.Stream(status, contentType, frames)
}

// Reader returns a response streaming r in chunks of chunkSize bytes.
func Reader(status int, contentType string, r io.Reader, chunkSize int) *Response {
	return internal.Reader(status, contentType, r, chunkSize)
}

// FramesOf yields the given frames in order.
func FramesOf(frames ...[]byte) Frames { return internal.FramesOf(frames...) }

// FramesFromReader yields r in chunks of chunkSize bytes.
func FramesFromReader(r io.Reader, chunkSize int) Frames {
	return internal.FramesFromReader(r, chunkSize)
}

// CollectFrames drains frames into one slice.
func CollectFrames(frames Frames) ([]byte, error) { return internal.CollectFrames(frames) }

// Routes

// NewRoute pairs router and service.
func NewRoute[C any](router Router[C], service Service[C], opts ...RouteOption) Route[C] {
	return internal.NewRoute(router, service, opts...)
}

// Homogenize erases the match context type of rt.
func Homogenize[C any](rt Route[C]) HomogeneousRoute {
	return internal.Homogenize(rt)
}

// NewHomogeneousRoute wraps a bare Endpoint as a named route.
func NewHomogeneousRoute(name string, e Endpoint) HomogeneousRoute {
	return internal.NewHomogeneousRoute(name, e)
}

// Any returns a Router that matches every request.
func Any() Router[struct{}] { return internal.Any() }

// Matched builds the outcome of a route that claimed the request.
func Matched(resp *Response, err error) Outcome { return internal.Matched(resp, err) }

// Unmatched builds the outcome of a route that declined req.
func Unmatched(req *Request) Outcome { return internal.Unmatched(req) }

// WithName names a route for logs and metrics.
func WithName(name string) RouteOption { return internal.WithName(name) }

// WithRouteMiddleware wraps a single route.
func WithRouteMiddleware(mw ...Middleware) RouteOption {
	return internal.WithRouteMiddleware(mw...)
}

// RouteName returns the name of the route currently handling ctx.
func RouteName(ctx context.Context) string { return internal.RouteName(ctx) }

// Chains

// NewChain creates a dispatch chain.
//
//	chain := routekit.NewChain(
//	    routekit.WithRoutes(api.Homogenize(), static.Homogenize()),
//	    routekit.WithMiddleware(middlewares.RequestID()),
//	    routekit.WithNotFound(routekit.NotFound),
//	)
func NewChain(opts ...ChainOption) *Chain { return internal.NewChain(opts...) }

// WithRoutes appends routes in dispatch order.
func WithRoutes(routes ...HomogeneousRoute) ChainOption {
	return internal.WithRoutes(routes...)
}

// WithMiddleware wraps the whole chain.
func WithMiddleware(mw ...Middleware) ChainOption {
	return internal.WithMiddleware(mw...)
}

// WithNotFound sets the fallback for requests no route claims.
func WithNotFound(h HandlerFunc) ChainOption { return internal.WithNotFound(h) }

// WithLogger sets the chain logger.
func WithLogger(l *slog.Logger) ChainOption { return internal.WithLogger(l) }

// NotFound answers 404.
func NotFound(ctx context.Context, req *Request) (*Response, error) {
	return internal.NotFound(ctx, req)
}

// DefaultErrorHandler maps err to a plain-text response via StatusCode.
func DefaultErrorHandler(ctx context.Context, head Head, err error) *Response {
	return internal.DefaultErrorHandler(ctx, head, err)
}

// Errors

// NewHTTPError creates an HTTPError with an optional cause.
func NewHTTPError(code int, message string, cause ...error) *HTTPError {
	return internal.NewHTTPError(code, message, cause...)
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError { return internal.AsHTTPError(err) }

// StatusCode maps err to an HTTP status code.
func StatusCode(err error) int { return internal.StatusCode(err) }

// Extractors

// NewExtractor tries sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

// FromCookie reads a cookie.
func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }

// FromAuthScheme reads the credential of scheme from header.
func FromAuthScheme(header, scheme string) ExtractorSource {
	return internal.FromAuthScheme(header, scheme)
}

// FromBearerToken reads a Bearer token from Authorization.
func FromBearerToken() ExtractorSource { return internal.FromBearerToken() }

// QueryValue returns a typed query parameter or the zero value.
func QueryValue[T Scalar](r *Request, name string) T { return internal.QueryValue[T](r, name) }

// QueryDefault returns a typed query parameter or defaultValue.
func QueryDefault[T Scalar](r *Request, name string, defaultValue T) T {
	return internal.QueryDefault(r, name, defaultValue)
}

// ParseValue converts raw to T.
func ParseValue[T Scalar](raw string) (T, bool) { return internal.ParseValue[T](raw) }

// Runtime

// Run serves srv until SIGINT/SIGTERM or context cancellation, then shuts
// down gracefully.
func Run(srv Server, opts ...RunOption) error { return internal.Run(srv, opts...) }

// Address sets the listen address. Defaults to ":8080".
func Address(addr string) RunOption { return internal.Address(addr) }

// Logger sets the runtime logger.
func Logger(l *slog.Logger) RunOption { return internal.Logger(l) }

// ShutdownTimeout bounds graceful shutdown. Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption { return internal.ShutdownTimeout(d) }

// StartupHook runs fn before the listener opens.
func StartupHook(fn func(context.Context) error) RunOption { return internal.StartupHook(fn) }

// ShutdownHook runs fn during shutdown, in registration order.
func ShutdownHook(fn func(context.Context) error) RunOption { return internal.ShutdownHook(fn) }

// OnListen receives the bound address once the listener is open.
func OnListen(fn func(net.Addr)) RunOption { return internal.OnListen(fn) }

// WithContext sets the base context; cancelling it triggers shutdown.
func WithContext(ctx context.Context) RunOption { return internal.WithContext(ctx) }
