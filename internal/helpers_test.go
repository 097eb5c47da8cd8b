package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/routekit/internal"
)

func TestParseValue(t *testing.T) {
	t.Parallel()

	s, ok := internal.ParseValue[string]("hello")
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	i, ok := internal.ParseValue[int]("42")
	assert.True(t, ok)
	assert.Equal(t, 42, i)

	_, ok = internal.ParseValue[int]("4x")
	assert.False(t, ok)

	i64, ok := internal.ParseValue[int64]("-9000000000")
	assert.True(t, ok)
	assert.Equal(t, int64(-9000000000), i64)

	f, ok := internal.ParseValue[float64]("2.5")
	assert.True(t, ok)
	assert.InDelta(t, 2.5, f, 0.0001)

	b, ok := internal.ParseValue[bool]("true")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = internal.ParseValue[bool]("maybe")
	assert.False(t, ok)
}

func TestQueryValue(t *testing.T) {
	t.Parallel()

	req := headReq("page=3&limit=abc&debug=1&q=go", nil)

	assert.Equal(t, 3, internal.QueryValue[int](req, "page"))
	assert.Equal(t, 0, internal.QueryValue[int](req, "limit"))
	assert.True(t, internal.QueryValue[bool](req, "debug"))
	assert.Equal(t, "go", internal.QueryValue[string](req, "q"))
	assert.Empty(t, internal.QueryValue[string](req, "missing"))
}

func TestQueryDefault(t *testing.T) {
	t.Parallel()

	req := headReq("page=3&limit=abc", nil)

	assert.Equal(t, 3, internal.QueryDefault(req, "page", 1))
	assert.Equal(t, 20, internal.QueryDefault(req, "limit", 20))
	assert.Equal(t, 20, internal.QueryDefault(req, "missing", 20))
	assert.Equal(t, "asc", internal.QueryDefault(req, "sort", "asc"))
}
