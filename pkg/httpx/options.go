package httpx

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/logger"
)

const defaultReadHeaderTimeout = 10 * time.Second

// Option configures the adapters and servers in this package.
type Option func(*config)

type config struct {
	logger            *slog.Logger
	errorHandler      internal.ErrorHandler
	name              string
	readHeaderTimeout time.Duration
	maxBodySize       int
	h2c               bool
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:            logger.NewNope(),
		errorHandler:      internal.DefaultErrorHandler,
		name:              "routekit",
		readHeaderTimeout: defaultReadHeaderTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger used for write failures and server diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHandler sets how dispatch failures become responses.
//
// Example:
//
//	httpx.Handler(chain, httpx.WithErrorHandler(
//	    func(ctx context.Context, head routekit.Head, err error) *routekit.Response {
//	        return routekit.JSON(routekit.StatusCode(err), map[string]string{"error": err.Error()})
//	    },
//	))
func WithErrorHandler(h internal.ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithReadHeaderTimeout bounds how long a server waits for request headers.
// Defaults to 10 seconds.
func WithReadHeaderTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.readHeaderTimeout = d
		}
	}
}

// WithH2C makes NewServer accept cleartext HTTP/2 alongside HTTP/1.1.
func WithH2C() Option {
	return func(c *config) {
		c.h2c = true
	}
}

// WithServerName sets the Server header sent by NewFastServer.
func WithServerName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithMaxRequestBodySize makes NewFastServer reject bodies above n bytes
// before they reach a service. Zero keeps the fasthttp default.
func WithMaxRequestBodySize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}
