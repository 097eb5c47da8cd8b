package httpx

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/valyala/bytebufferpool"

	"github.com/dmitrymomot/routekit/internal"
)

// Mount adapts a net/http handler into a routekit Service. The request body
// is collected first (bounded by WithMaxRequestBodySize when set) and the
// handler's output is buffered into a single frame, so Mount suits small
// handlers such as metrics or debug endpoints, not long-lived streams.
//
// Example:
//
//	metricsRoute := routekit.NewRoute[pattern.Params](
//	    pattern.New(http.MethodGet, "/metrics"),
//	    httpx.Mount[pattern.Params](collector.Handler()),
//	)
func Mount[C any](h http.Handler, opts ...Option) internal.Service[C] {
	cfg := newConfig(opts...)

	return internal.ServiceFunc[C](func(ctx context.Context, req *internal.Request, _ C) (*internal.Response, error) {
		var collect []internal.CollectOption
		if cfg.maxBodySize > 0 {
			collect = append(collect, internal.WithMaxSize(int64(cfg.maxBodySize)))
		}
		body, err := req.Body().CollectBytes(ctx, collect...)
		if err != nil {
			return nil, err
		}

		r, err := http.NewRequestWithContext(ctx, req.Method, (&url.URL{Path: req.Path, RawQuery: req.RawQuery}).String(), bytes.NewReader(body))
		if err != nil {
			return nil, internal.NewHTTPError(http.StatusBadRequest, "malformed request", err)
		}
		r.Header = req.Header.Clone()
		r.Host = req.Host
		r.RemoteAddr = req.RemoteAddr

		w := &bufferedWriter{header: make(http.Header), buf: bytebufferpool.Get()}
		defer bytebufferpool.Put(w.buf)
		h.ServeHTTP(w, r)

		status := w.status
		if status == 0 {
			status = http.StatusOK
		}
		resp := internal.Bytes(status, w.header.Get("Content-Type"), append([]byte(nil), w.buf.B...))
		for k, v := range w.header {
			resp.Header[k] = v
		}
		return resp, nil
	})
}

// bufferedWriter is an in-memory http.ResponseWriter.
type bufferedWriter struct {
	header http.Header
	buf    *bytebufferpool.ByteBuffer
	status int
}

func (w *bufferedWriter) Header() http.Header { return w.header }

func (w *bufferedWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.buf.Write(p)
}
