package internal

import (
	"context"
	"net/http"
)

// Handler is the single entry point a transport needs: given a request,
// produce a response or fail. *Chain implements it.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
// It is also the signature of a chain's not-found fallback.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// ErrorHandler converts a failed dispatch into the response written to the
// client. It receives the request head only: the body belongs to whichever
// service consumed it.
type ErrorHandler func(ctx context.Context, head Head, err error) *Response

// DefaultErrorHandler answers with StatusCode(err) and a plain-text message.
// Only HTTPError messages reach the client; everything else uses the
// standard status text.
func DefaultErrorHandler(_ context.Context, _ Head, err error) *Response {
	code := StatusCode(err)
	msg := http.StatusText(code)
	if httpErr := AsHTTPError(err); httpErr != nil && httpErr.Message != "" {
		msg = httpErr.Message
	}
	return Text(code, msg+"\n")
}

// NotFound is a fallback that answers 404 with a plain-text body.
func NotFound(_ context.Context, _ *Request) (*Response, error) {
	return Text(http.StatusNotFound, "404 page not found\n"), nil
}
