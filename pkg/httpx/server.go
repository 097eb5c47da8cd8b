package httpx

import (
	"log/slog"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/dmitrymomot/routekit/internal"
)

// NewServer builds a net/http server dispatching to h.
// With WithH2C it also accepts HTTP/2 over cleartext connections.
//
// Example:
//
//	srv := httpx.NewServer(chain, httpx.WithLogger(log), httpx.WithH2C())
//	err := routekit.Run(srv, routekit.Address(":8080"))
func NewServer(h internal.Handler, opts ...Option) *http.Server {
	cfg := newConfig(opts...)

	handler := Handler(h, opts...)
	if cfg.h2c {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(cfg.logger.Handler(), slog.LevelWarn),
	}
}
