package principal

import "errors"

var (
	// ErrUnknownToken is returned by a Resolver when the token is not valid.
	// The router treats it as "no match", never as a failure.
	ErrUnknownToken = errors.New("principal: unknown token")

	// ErrNotFound is returned by a Store on a cache miss.
	ErrNotFound = errors.New("principal: entry not found")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("principal: store closed")

	// ErrMarshal is returned when a principal cannot be serialized for storage.
	ErrMarshal = errors.New("principal: failed to marshal principal")

	// ErrUnmarshal is returned when a stored principal cannot be decoded.
	ErrUnmarshal = errors.New("principal: failed to unmarshal principal")

	// ErrEmptyConnectionURL is returned by OpenRedis and ConnectPostgres for an empty URL.
	ErrEmptyConnectionURL = errors.New("principal: empty connection URL")

	// ErrFailedToParseURL is returned for malformed connection URLs.
	ErrFailedToParseURL = errors.New("principal: failed to parse connection URL")

	// ErrConnectionFailed is returned when a backend is unreachable after all retries.
	ErrConnectionFailed = errors.New("principal: failed to establish connection")

	// ErrHealthcheckFailed is returned by backend health checks.
	ErrHealthcheckFailed = errors.New("principal: healthcheck failed")
)
