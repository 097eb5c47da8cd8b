package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/routekit/internal"
)

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeUnmatched = "unmatched"
)

// unnamed is the route label for unmatched or anonymous routes.
const unnamed = "none"

// Collector records dispatch metrics for a chain or a single route.
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
	gatherer prometheus.Gatherer
}

type config struct {
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	namespace  string
	buckets    []float64
}

// Option configures a Collector.
type Option func(*config)

// WithNamespace prefixes every metric name. Default: "routekit".
func WithNamespace(ns string) Option {
	return func(c *config) { c.namespace = ns }
}

// WithRegistry registers the collectors on reg instead of the default
// registry. The registry is also what Handler exposes.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *config) {
		c.registerer = reg
		c.gatherer = reg
	}
}

// WithBuckets sets the latency histogram buckets in seconds.
func WithBuckets(b ...float64) Option {
	return func(c *config) { c.buckets = b }
}

// New creates and registers a Collector. It panics if the metrics are
// already registered, like prometheus.MustRegister.
func New(opts ...Option) *Collector {
	cfg := &config{
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
		namespace:  "routekit",
		buckets:    prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "dispatch_total",
			Help:      "Requests dispatched, by route, outcome and status code.",
		}, []string{"route", "outcome", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time from dispatch to response or error, by route.",
			Buckets:   cfg.buckets,
		}, []string{"route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Name:      "dispatch_inflight",
			Help:      "Requests currently being dispatched.",
		}),
		gatherer: cfg.gatherer,
	}
	cfg.registerer.MustRegister(c)
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.requests.Describe(ch)
	c.duration.Describe(ch)
	c.inflight.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.requests.Collect(ch)
	c.duration.Collect(ch)
	c.inflight.Collect(ch)
}

// Middleware returns an endpoint middleware that observes every dispatch.
// The duration covers routing and the service call, not body streaming.
func (c *Collector) Middleware() internal.Middleware {
	return func(next internal.Endpoint) internal.Endpoint {
		return func(ctx context.Context, req *internal.Request) internal.Outcome {
			c.inflight.Inc()
			start := time.Now()
			out := next(ctx, req)
			elapsed := time.Since(start)
			c.inflight.Dec()

			route := out.Route()
			if route == "" {
				route = unnamed
			}
			outcome, code := classify(out)
			c.requests.WithLabelValues(route, outcome, code).Inc()
			c.duration.WithLabelValues(route).Observe(elapsed.Seconds())
			return out
		}
	}
}

// Handler exposes the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func classify(out internal.Outcome) (outcome, code string) {
	switch {
	case !out.Matched():
		return OutcomeUnmatched, ""
	case out.Err() != nil:
		return OutcomeError, strconv.Itoa(internal.StatusCode(out.Err()))
	case out.Response() == nil:
		return OutcomeError, strconv.Itoa(http.StatusInternalServerError)
	default:
		status := out.Response().Status
		if status == 0 {
			status = http.StatusOK
		}
		return OutcomeOK, strconv.Itoa(status)
	}
}

var _ prometheus.Collector = (*Collector)(nil)
