package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/routekit/pkg/logger"
)

const (
	defaultTimeout = 5 * time.Second

	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"

	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc is the standard health check function signature.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named health check functions.
type Checks map[string]CheckFunc

// Report is the aggregated result of a readiness run.
type Report struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check is the status of a single health check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger        *slog.Logger
	livenessPath  string
	readinessPath string
	timeout       time.Duration
}

// Option configures health probes.
type Option func(*config)

// WithTimeout sets the deadline shared by all checks of one run.
// Defaults to 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLivenessPath overrides the liveness endpoint path used by Routes.
// Defaults to "/health/live".
func WithLivenessPath(path string) Option {
	return func(c *config) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath overrides the readiness endpoint path used by Routes.
// Defaults to "/health/ready".
func WithReadinessPath(path string) Option {
	return func(c *config) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout:       defaultTimeout,
		logger:        logger.NewNope(),
		livenessPath:  defaultLivenessPath,
		readinessPath: defaultReadinessPath,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes checks in parallel under one shared timeout and aggregates
// their results. One failing check marks the whole report unhealthy but
// does not cancel the others.
func Run(ctx context.Context, checks Checks, opts ...Option) *Report {
	return runChecks(ctx, checks, newConfig(opts...))
}

func runChecks(ctx context.Context, checks Checks, cfg *config) *Report {
	if len(checks) == 0 {
		return &Report{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]Check, len(checks))
		status  = StatusHealthy
	)

	for name, check := range checks {
		g.Go(func() error {
			result := Check{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = errors.Join(ErrCheckTimeout, err)
				}
				result.Status = StatusUnhealthy
				result.Error = err.Error()
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.Any("error", errors.Join(ErrCheckFailed, err)),
				)
			}

			mu.Lock()
			results[name] = result
			if result.Status == StatusUnhealthy {
				status = StatusUnhealthy
			}
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	return &Report{
		Status: status,
		Checks: results,
	}
}
