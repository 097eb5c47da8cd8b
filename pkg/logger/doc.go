// Package logger builds the structured loggers used across routekit.
//
// Loggers are plain *slog.Logger values. The package adds two things on top
// of log/slog: context extractors, which copy request-scoped values such as
// request IDs into every record, and optional Sentry forwarding.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"},
//	    middlewares.RequestIDExtractor(),
//	)
//	log.InfoContext(ctx, "dispatch finished", slog.Int("status", 200))
//
// Config carries env tags, so it can be filled by pkg/config:
//
//	LOG_LEVEL=debug LOG_FORMAT=json SENTRY_DSN=https://... ./routekitd
//
// # Sentry
//
// With a DSN set, errors create Sentry issues and warnings are stored as
// Sentry logs (errors only with SentryErrorsOnly). Without a DSN, or when
// Sentry cannot be initialized, output stays local.
//
// # Decorating Handlers
//
// WithExtractors wraps any slog.Handler:
//
//	h := logger.WithExtractors(slog.NewJSONHandler(os.Stderr, nil), extractors...)
//	log := slog.New(h)
package logger
