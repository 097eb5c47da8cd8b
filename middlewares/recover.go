package middlewares

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/logger"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	Logger            *slog.Logger
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
	DisableSentry     bool // Do not report panics to Sentry
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// WithRecoverLogger sets the logger for recovered panics.
func WithRecoverLogger(l *slog.Logger) RecoverOption {
	return func(cfg *RecoverConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithRecoverDisableSentry stops panics from being reported to Sentry.
func WithRecoverDisableSentry() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisableSentry = true
	}
}

// Recover returns middleware that recovers from panics in routers and
// services. A panic becomes a matched failure carrying *PanicError, so the
// transport's error handler answers 500 and later routes are not tried.
//
// When a Sentry client is bound to the context hub (or the global hub),
// the panic is reported there as well.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{
		Logger:    logger.NewNope(),
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.Endpoint) internal.Endpoint {
		return func(ctx context.Context, req *internal.Request) (out internal.Outcome) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				var stack []byte
				if !cfg.DisablePrintStack {
					stack = make([]byte, cfg.StackSize)
					stack = stack[:runtime.Stack(stack, false)]
					cfg.Logger.ErrorContext(ctx, "panic recovered", "panic", r, "stack", string(stack))
				} else {
					cfg.Logger.ErrorContext(ctx, "panic recovered", "panic", r)
				}

				if !cfg.DisableSentry {
					hub := sentry.GetHubFromContext(ctx)
					if hub == nil {
						hub = sentry.CurrentHub()
					}
					if hub.Client() != nil {
						hub.RecoverWithContext(ctx, r)
					}
				}

				out = internal.Matched(nil, &PanicError{Value: r, Stack: stack})
			}()

			return next(ctx, req)
		}
	}
}
