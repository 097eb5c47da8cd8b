//go:build integration

package principal_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/pkg/principal"
)

const testRedisURL = "redis://localhost:6379/0"

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}

	ctx := context.Background()
	client, err := principal.OpenRedis(ctx, url, principal.WithRedisRetry(1, 100*time.Millisecond))
	require.NoError(t, err, "failed to connect to Redis")

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestRedisClient(t)
	s := principal.NewRedisStore(client, "test-principals", time.Minute)
	alice := principal.Principal{ID: "1", Subject: "alice", Scopes: []string{"read"}}

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, principal.ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", alice, 0))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, alice, got)

	ttl, err := client.TTL(ctx, "test-principals:k").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, principal.ErrNotFound)

	require.NoError(t, principal.RedisHealthcheck(client)(ctx))
}
