package middlewares_test

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/routekit/internal"
)

func newReq(method, path string, headers map[string]string) *internal.Request {
	head := internal.Head{Method: method, Path: path, Header: http.Header{}}
	for k, v := range headers {
		head.Header.Set(k, v)
	}
	return internal.NewRequest(head, nil)
}

// okEndpoint answers 200 "ok" and counts calls.
func okEndpoint(calls *int) internal.Endpoint {
	return func(context.Context, *internal.Request) internal.Outcome {
		if calls != nil {
			*calls++
		}
		return internal.Matched(internal.Text(http.StatusOK, "ok"), nil)
	}
}

func unmatchedEndpoint(_ context.Context, req *internal.Request) internal.Outcome {
	return internal.Unmatched(req)
}
