package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/logger"
)

// DefaultTimeout is the default dispatch timeout.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithTimeoutLogger sets the logger for timeouts.
func WithTimeoutLogger(l *slog.Logger) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// Timeout returns middleware that bounds the time to produce a response.
// On expiry it returns a matched failure with *TimeoutError (503) and the
// request is considered claimed.
//
// The deadline stays attached to the context while the response frames are
// streamed and is released when the stream ends.
//
// Note: the wrapped endpoint keeps running after the deadline. Services
// should watch ctx.Done() in long operations.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{
		Logger:  logger.NewNope(),
		Timeout: timeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.Endpoint) internal.Endpoint {
		return func(ctx context.Context, req *internal.Request) internal.Outcome {
			tctx, cancel := context.WithTimeout(ctx, cfg.Timeout)

			done := make(chan internal.Outcome, 1)
			go func() {
				done <- next(tctx, req)
			}()

			select {
			case out := <-done:
				resp := out.Response()
				if resp == nil {
					cancel()
					return out
				}
				return out.WithResponse(releaseAfter(resp, cancel))
			case <-tctx.Done():
				cancel()
				if errors.Is(tctx.Err(), context.DeadlineExceeded) {
					cfg.Logger.WarnContext(ctx, "request timeout", "timeout", cfg.Timeout.String())
					return internal.Matched(nil, &TimeoutError{Duration: cfg.Timeout})
				}
				return internal.Matched(nil, tctx.Err())
			}
		}
	}
}

// releaseAfter returns a copy of resp whose stream calls release when it ends.
func releaseAfter(resp *internal.Response, release context.CancelFunc) *internal.Response {
	frames := resp.Frames()
	wrapped := internal.NewResponse(resp.Status, func(yield func([]byte, error) bool) {
		defer release()
		for f, err := range frames {
			if !yield(f, err) {
				return
			}
		}
	})
	wrapped.Header = resp.Header
	return wrapped
}
