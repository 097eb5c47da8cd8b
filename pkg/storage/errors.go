package storage

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/routekit/internal"
)

var (
	ErrInvalidConfig  = errors.New("storage: invalid configuration")
	ErrEmptyFile      = errors.New("storage: file is empty")
	ErrInvalidMIME    = errors.New("storage: file type not allowed")
	ErrInvalidKey     = errors.New("storage: invalid object key")
	ErrNotFound       = errors.New("storage: object not found")
	ErrAccessDenied   = errors.New("storage: access denied")
	ErrUploadFailed   = errors.New("storage: upload failed")
	ErrDownloadFailed = errors.New("storage: download failed")
	ErrUnavailable    = errors.New("storage: backend unavailable")
)

// wrapS3Error maps AWS SDK errors onto the package sentinels.
// The original error is formatted with %v so SDK types do not leak to callers.
func wrapS3Error(err error, fallback error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		case "ServiceUnavailable", "SlowDown", "InternalError":
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}

// httpError attaches the response status for a storage error.
func httpError(err error) *internal.HTTPError {
	code := http.StatusBadGateway
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrAccessDenied):
		code = http.StatusForbidden
	case errors.Is(err, ErrInvalidMIME):
		code = http.StatusUnsupportedMediaType
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidKey), errors.Is(err, ErrInvalidConfig):
		code = http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		code = http.StatusServiceUnavailable
	}
	return internal.NewHTTPError(code, http.StatusText(code), err)
}
