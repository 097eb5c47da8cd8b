package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/routekit/internal"
)

// NewRequest converts an inbound net/http request. Headers are copied; the
// body stream is handed over as is.
func NewRequest(r *http.Request) *internal.Request {
	head := internal.Head{
		Header:     r.Header.Clone(),
		Method:     r.Method,
		Path:       r.URL.Path,
		RawQuery:   r.URL.RawQuery,
		Host:       r.Host,
		RemoteAddr: r.RemoteAddr,
	}
	return internal.NewRequest(head, internal.NewBody(r.Body))
}

// Handler adapts h to net/http. Dispatch failures go through the configured
// ErrorHandler; frames are written and flushed as they are produced.
//
// Example:
//
//	mux := http.NewServeMux()
//	mux.Handle("/", httpx.Handler(chain, httpx.WithLogger(log)))
func Handler(h internal.Handler, opts ...Option) http.Handler {
	cfg := newConfig(opts...)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req := NewRequest(r)
		head := req.Head

		resp, err := h.Handle(ctx, req)
		if err == nil {
			var started bool
			started, err = writeResponse(w, resp)
			if err == nil {
				return
			}
			if started {
				cfg.logger.ErrorContext(ctx, "response stream failed",
					slog.String("path", head.Path),
					slog.Any("error", err),
				)
				return
			}
		}

		if _, werr := writeResponse(w, cfg.errorHandler(ctx, head, err)); werr != nil {
			cfg.logger.ErrorContext(ctx, "write error response",
				slog.String("path", head.Path),
				slog.Any("error", errors.Join(err, werr)),
			)
		}
	})
}

// WriteResponse writes resp to w, flushing between frames.
// An error from the first frame is returned before anything is written.
func WriteResponse(w http.ResponseWriter, resp *internal.Response) error {
	_, err := writeResponse(w, resp)
	return err
}

func writeResponse(w http.ResponseWriter, resp *internal.Response) (bool, error) {
	s, err := openStream(resp)
	if err != nil {
		return false, err
	}
	defer s.stop()

	header := w.Header()
	for k, v := range resp.Header {
		header[k] = append([]string(nil), v...)
	}
	w.WriteHeader(statusOf(resp))
	if s.ended {
		return true, nil
	}

	rc := http.NewResponseController(w)
	frame := s.first
	for {
		if _, err := w.Write(frame); err != nil {
			return true, &internal.TransportError{Err: err}
		}

		var ok bool
		frame, err, ok = s.next()
		if err != nil {
			return true, err
		}
		if !ok {
			return true, nil
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return true, &internal.TransportError{Err: err}
		}
	}
}
