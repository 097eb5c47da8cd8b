package httpx

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/dmitrymomot/routekit/internal"
)

// NewFastRequest converts a fasthttp request. The body is read from the
// already buffered PostBody, so it must be consumed before the handler returns.
func NewFastRequest(ctx *fasthttp.RequestCtx) *internal.Request {
	hdr := make(http.Header)
	ctx.Request.Header.VisitAll(func(k, v []byte) {
		hdr.Add(string(k), string(v))
	})

	head := internal.Head{
		Header:     hdr,
		Method:     string(ctx.Method()),
		Path:       string(ctx.Path()),
		RawQuery:   string(ctx.URI().QueryString()),
		Host:       string(ctx.Host()),
		RemoteAddr: ctx.RemoteAddr().String(),
	}
	body := io.NopCloser(bytes.NewReader(ctx.PostBody()))
	return internal.NewRequest(head, internal.NewBody(body))
}

// FastHandler adapts h to fasthttp.
//
// Single-frame responses are set as the fasthttp body directly. Longer
// streams use a body stream writer, and the request context stays alive
// until the stream ends. The context derives from fctx, so server shutdown
// and user values set on fctx reach routers and services.
func FastHandler(h internal.Handler, opts ...Option) fasthttp.RequestHandler {
	cfg := newConfig(opts...)
	return func(fctx *fasthttp.RequestCtx) {
		ctx, cancel := context.WithCancel(fctx)
		req := NewFastRequest(fctx)
		head := req.Head

		resp, err := h.Handle(ctx, req)
		if err == nil {
			var streaming bool
			streaming, err = writeFast(fctx, resp, cfg.logger, cancel)
			if err == nil {
				if !streaming {
					cancel()
				}
				return
			}
		}

		fctx.Response.Reset()
		streaming, werr := writeFast(fctx, cfg.errorHandler(ctx, head, err), cfg.logger, cancel)
		if werr != nil {
			cfg.logger.ErrorContext(ctx, "write error response",
				slog.String("path", head.Path),
				slog.Any("error", werr),
			)
			fctx.Error(http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		if !streaming {
			cancel()
		}
	}
}

// writeFast reports whether it handed the rest of the stream to a body
// stream writer. Nothing reaches the wire until the handler returns, so any
// error it returns leaves the response free to be replaced.
func writeFast(fctx *fasthttp.RequestCtx, resp *internal.Response, log *slog.Logger, done func()) (bool, error) {
	s, err := openStream(resp)
	if err != nil {
		return false, err
	}

	for k, vals := range resp.Header {
		for _, v := range vals {
			fctx.Response.Header.Add(k, v)
		}
	}
	fctx.SetStatusCode(statusOf(resp))

	if s.ended {
		s.stop()
		return false, nil
	}

	second, err, ok := s.next()
	if err != nil {
		s.stop()
		fctx.Response.Reset()
		return false, err
	}
	if !ok {
		s.stop()
		fctx.SetBody(s.first)
		return false, nil
	}

	first := s.first
	fctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer done()
		defer s.stop()

		frame := first
		pending := second
		for {
			if _, err := w.Write(frame); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
			if pending != nil {
				frame, pending = pending, nil
				continue
			}

			var err error
			frame, err, ok = s.next()
			if err != nil {
				log.Error("response stream failed", slog.Any("error", err))
				return
			}
			if !ok {
				return
			}
		}
	})
	return true, nil
}

// FastServer runs a fasthttp server under the routekit runtime.
type FastServer struct {
	srv *fasthttp.Server
}

// NewFastServer builds a fasthttp server dispatching to h.
//
// Example:
//
//	srv := httpx.NewFastServer(chain, httpx.WithMaxRequestBodySize(8<<20))
//	err := routekit.Run(srv, routekit.Address(":8080"))
func NewFastServer(h internal.Handler, opts ...Option) *FastServer {
	cfg := newConfig(opts...)
	return &FastServer{
		srv: &fasthttp.Server{
			Handler:            FastHandler(h, opts...),
			Name:               cfg.name,
			ReadTimeout:        cfg.readHeaderTimeout,
			MaxRequestBodySize: cfg.maxBodySize,
			Logger:             fastLogger{log: cfg.logger},
		},
	}
}

// Serve accepts connections on ln until Shutdown.
func (s *FastServer) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for open ones to finish,
// or for ctx to expire.
func (s *FastServer) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- s.srv.Shutdown()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type fastLogger struct {
	log *slog.Logger
}

func (l fastLogger) Printf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...), slog.String("component", "fasthttp"))
}
