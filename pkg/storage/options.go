package storage

import (
	"log/slog"

	"github.com/dmitrymomot/routekit/pkg/logger"
)

const (
	defaultChunkSize     = 32 << 10
	defaultMaxUploadSize = 10 << 20
)

// Option configures the storage services.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	prefix       string
	cacheControl string
	allowed      []string
	chunkSize    int
	maxSize      int64
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:    logger.NewNope(),
		chunkSize: defaultChunkSize,
		maxSize:   defaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithKeyPrefix places every object under prefix. Example: WithKeyPrefix("avatars")
// turns key "a.png" into "avatars/a.png".
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = sanitizePathSegment(prefix)
	}
}

// WithChunkSize sets the frame size used when streaming downloads.
// Default: 32 KiB.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithMaxUploadSize bounds the request body accepted by Upload.
// Default: 10 MiB.
func WithMaxUploadSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// WithAllowedTypes restricts uploads to the given MIME types.
// Wildcards such as "image/*" are supported.
func WithAllowedTypes(types ...string) Option {
	return func(o *options) {
		o.allowed = append(o.allowed, types...)
	}
}

// WithCacheControl sets the Cache-Control header on downloads.
func WithCacheControl(v string) Option {
	return func(o *options) {
		o.cacheControl = v
	}
}

// WithLogger sets the logger for upload and download failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
