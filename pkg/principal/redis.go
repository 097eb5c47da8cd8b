package principal

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOption configures OpenRedis.
type RedisOption func(*redisOptions)

type redisOptions struct {
	poolSize      int
	minIdleConns  int
	retryAttempts int
	retryInterval time.Duration
	dialTimeout   time.Duration
	readTimeout   time.Duration
	writeTimeout  time.Duration
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		poolSize:      10,
		minIdleConns:  2,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
		dialTimeout:   5 * time.Second,
		readTimeout:   3 * time.Second,
		writeTimeout:  3 * time.Second,
	}
}

// WithPoolSize sets the maximum number of pooled connections. Default: 10.
func WithPoolSize(n int) RedisOption {
	return func(o *redisOptions) { o.poolSize = n }
}

// WithRedisRetry sets connection attempts and the base backoff interval.
// Attempt i waits (i+1)*interval. Default: 3 attempts, 2 seconds.
func WithRedisRetry(attempts int, interval time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// WithRedisTimeouts sets dial, read and write timeouts.
func WithRedisTimeouts(dial, read, write time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.dialTimeout = dial
		o.readTimeout = read
		o.writeTimeout = write
	}
}

// OpenRedis connects to a redis:// or rediss:// URL, retrying with linear
// backoff until a PING succeeds.
func OpenRedis(ctx context.Context, url string, opts ...RedisOption) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}

	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	ro.PoolSize = o.poolSize
	ro.MinIdleConns = o.minIdleConns
	ro.DialTimeout = o.dialTimeout
	ro.ReadTimeout = o.readTimeout
	ro.WriteTimeout = o.writeTimeout

	for i := range max(o.retryAttempts, 1) {
		client := redis.NewClient(ro)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		if err := wait(ctx, time.Duration(i+1)*o.retryInterval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}
	return nil, ErrConnectionFailed
}

// RedisHealthcheck returns a readiness check that pings client.
func RedisHealthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown adapts a Closer (Redis client, MemoryStore) to a shutdown hook.
func Shutdown(c io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return c.Close()
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
