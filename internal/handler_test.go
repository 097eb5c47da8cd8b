package internal_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
)

func TestDefaultErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"http error message", internal.NewHTTPError(http.StatusForbidden, "nope"), http.StatusForbidden, "nope\n"},
		{"too large", &internal.RequestTooLargeError{Actual: 9, Limit: 1}, http.StatusRequestEntityTooLarge, "Request Entity Too Large\n"},
		{"internal details hidden", errors.New("db password wrong"), http.StatusInternalServerError, "Internal Server Error\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := internal.DefaultErrorHandler(context.Background(), internal.Head{}, tt.err)
			require.Equal(t, tt.wantStatus, resp.Status)
			require.Equal(t, tt.wantBody, bodyOf(t, resp))
		})
	}
}

func TestHandlerFunc(t *testing.T) {
	t.Parallel()

	var h internal.Handler = internal.HandlerFunc(internal.NotFound)
	resp, err := h.Handle(context.Background(), newReq("/"))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.Status)
}
