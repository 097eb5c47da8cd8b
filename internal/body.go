package internal

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// readChunkSize is the size of a single read from the transport stream.
const readChunkSize = 32 << 10

// Body is a single-use handle over an inbound byte stream.
// Exactly one of CollectBytes or CollectString may succeed in consuming it;
// any later attempt fails with ErrBodyConsumed.
type Body struct {
	rc   io.ReadCloser
	used atomic.Bool
}

// NewBody wraps the transport's stream. A nil reader yields an empty body.
func NewBody(rc io.ReadCloser) *Body {
	if rc == nil {
		rc = io.NopCloser(strings.NewReader(""))
	}
	return &Body{rc: rc}
}

// CollectOption configures body collection.
type CollectOption func(*collectConfig)

type collectConfig struct {
	charset string
	maxSize int64
	limited bool
}

// WithMaxSize bounds the number of bytes collected.
// Zero is a valid bound that only admits an empty body.
func WithMaxSize(n int64) CollectOption {
	return func(c *collectConfig) {
		if n >= 0 {
			c.maxSize = n
			c.limited = true
		}
	}
}

// WithCharset decodes the body from the given charset label (e.g. "latin1",
// "windows-1252") before validating it as UTF-8. Only used by CollectString.
func WithCharset(label string) CollectOption {
	return func(c *collectConfig) {
		c.charset = strings.ToLower(strings.TrimSpace(label))
	}
}

// CollectBytes drains the stream and returns its chunks concatenated in order.
// When a max size is set and the stream is longer, nothing collected so far
// is returned: the remainder is drained only to measure it and the call fails
// with *RequestTooLargeError.
func (b *Body) CollectBytes(ctx context.Context, opts ...CollectOption) ([]byte, error) {
	cfg := &collectConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return b.collect(ctx, cfg)
}

// CollectString collects the body like CollectBytes and validates it as text.
// Invalid input fails with *EncodingError; the raw bytes are not exposed.
func (b *Body) CollectString(ctx context.Context, opts ...CollectOption) (string, error) {
	cfg := &collectConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	data, err := b.collect(ctx, cfg)
	if err != nil {
		return "", err
	}

	if cfg.charset != "" && !isUTF8Label(cfg.charset) {
		enc, err := htmlindex.Get(cfg.charset)
		if err != nil {
			return "", &EncodingError{Charset: cfg.charset, Offset: -1}
		}
		decoded, n, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			return "", &EncodingError{Charset: cfg.charset, Offset: n}
		}
		data = decoded
	}

	if _, n, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
		return "", &EncodingError{Charset: "utf-8", Offset: n}
	}
	return string(data), nil
}

// Close abandons the body without reading it. Closing a consumed body is a no-op.
func (b *Body) Close() error {
	if !b.used.CompareAndSwap(false, true) {
		return nil
	}
	return b.rc.Close()
}

// Consumed reports whether the body has been collected or closed.
func (b *Body) Consumed() bool {
	return b.used.Load()
}

func (b *Body) collect(ctx context.Context, cfg *collectConfig) ([]byte, error) {
	if !b.used.CompareAndSwap(false, true) {
		return nil, ErrBodyConsumed
	}
	defer b.rc.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	chunk := make([]byte, readChunkSize)
	var (
		total    int64
		overflow bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := b.rc.Read(chunk)
		if n > 0 {
			total += int64(n)
			if cfg.limited && total > cfg.maxSize {
				if !overflow {
					overflow = true
					buf.Reset()
				}
			} else {
				_, _ = buf.Write(chunk[:n])
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &TransportError{Err: err}
		}
	}

	if overflow {
		return nil, &RequestTooLargeError{Actual: total, Limit: cfg.maxSize}
	}

	// buf goes back to the pool; hand the caller its own copy.
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func isUTF8Label(label string) bool {
	switch label {
	case "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}
