package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/routekit/internal"
)

// AccessLog returns middleware that writes one log record per dispatch.
// Successful matches log at info, failures at error, and unmatched requests
// at debug, since a later route or fallback usually handles them.
func AccessLog(log *slog.Logger) internal.Middleware {
	return func(next internal.Endpoint) internal.Endpoint {
		return func(ctx context.Context, req *internal.Request) internal.Outcome {
			start := time.Now()
			head := req.Head
			out := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("method", head.Method),
				slog.String("path", head.Path),
				slog.Duration("duration", time.Since(start)),
			}
			switch {
			case !out.Matched():
				log.LogAttrs(ctx, slog.LevelDebug, "request unmatched", attrs...)
			case out.Err() != nil:
				attrs = append(attrs,
					slog.String("route", out.Route()),
					slog.Int("status", internal.StatusCode(out.Err())),
					slog.Any("error", out.Err()),
				)
				log.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
			default:
				status := out.Response().Status
				if status == 0 {
					status = http.StatusOK
				}
				attrs = append(attrs,
					slog.String("route", out.Route()),
					slog.Int("status", status),
				)
				log.LogAttrs(ctx, slog.LevelInfo, "request", attrs...)
			}
			return out
		}
	}
}
