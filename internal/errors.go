package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for dispatch and body handling.
var (
	// ErrBodyConsumed is returned when a request body or response frame
	// stream is consumed a second time.
	ErrBodyConsumed = errors.New("routekit: body already consumed")

	// ErrNilResponse is returned when a service reports success without a response.
	ErrNilResponse = errors.New("routekit: service returned nil response")

	// ErrNoRoute is returned by Chain.Handle when no route matched and no
	// not-found fallback is configured.
	ErrNoRoute = errors.New("routekit: no route matched")

	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("routekit: transport fault")

	// ErrEncoding matches every *EncodingError.
	ErrEncoding = errors.New("routekit: invalid text encoding")

	// ErrRequestTooLarge matches every *RequestTooLargeError.
	ErrRequestTooLarge = errors.New("routekit: request body too large")
)

// TransportError wraps a stream or protocol fault raised by the transport
// while a body was being read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("routekit: transport fault: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// EncodingError reports body bytes that are not valid text.
// The offending bytes are intentionally not retained.
type EncodingError struct {
	// Charset is the encoding that was requested ("utf-8" by default).
	Charset string
	// Offset is the byte position of the first invalid sequence, or -1 if unknown.
	Offset int
}

func (e *EncodingError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("routekit: body is not valid %s", e.Charset)
	}
	return fmt.Sprintf("routekit: body is not valid %s at byte %d", e.Charset, e.Offset)
}

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }

// RequestTooLargeError reports a body whose total length exceeded the
// configured bound. Actual is the full length of the stream.
type RequestTooLargeError struct {
	Actual int64
	Limit  int64
}

func (e *RequestTooLargeError) Error() string {
	return fmt.Sprintf("routekit: request body of %d bytes exceeds limit of %d", e.Actual, e.Limit)
}

func (e *RequestTooLargeError) Is(target error) bool { return target == ErrRequestTooLarge }

// HTTPError represents an error with an explicit status code.
// Services return it when a failure must map to a specific wire status.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string, cause ...error) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
		Err:     errors.Join(cause...),
	}
}

// AsHTTPError extracts the HTTPError from an error chain if present.
// Returns nil if the error is not an HTTPError.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// StatusCode maps an error to the HTTP status a transport should emit.
// Errors in the chain that have a StatusCode() int method pick their own.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if httpErr := AsHTTPError(err); httpErr != nil && httpErr.Code > 0 {
		return httpErr.Code
	}
	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) && coded.StatusCode() > 0 {
		return coded.StatusCode()
	}
	switch {
	case errors.Is(err, ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrEncoding), errors.Is(err, ErrTransport):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoRoute):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
