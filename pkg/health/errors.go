package health

import "errors"

var (
	// ErrCheckFailed is attached to logged check failures.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is reported for checks that ran past the shared deadline.
	ErrCheckTimeout = errors.New("health: check timeout")
)
