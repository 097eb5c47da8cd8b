package httpx

import (
	"iter"
	"net/http"

	"github.com/dmitrymomot/routekit/internal"
)

// stream is a response body pulled one frame at a time. The first frame is
// fetched before anything goes on the wire, so a producer that fails
// immediately can still be answered with an error response.
type stream struct {
	next  func() ([]byte, error, bool)
	stop  func()
	first []byte
	ended bool
}

func openStream(resp *internal.Response) (*stream, error) {
	if resp == nil {
		return nil, internal.ErrNilResponse
	}
	next, stop := iter.Pull2(resp.Frames())
	first, err, ok := next()
	if err != nil {
		stop()
		return nil, err
	}
	return &stream{next: next, stop: stop, first: first, ended: !ok}, nil
}

func statusOf(resp *internal.Response) int {
	if resp.Status == 0 {
		return http.StatusOK
	}
	return resp.Status
}
