package principal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/logger"
)

const (
	defaultHeader         = "Authorization"
	defaultScheme         = "Bearer"
	defaultCacheTTL       = 5 * time.Minute
	defaultResolveTimeout = 3 * time.Second
)

// Router matches requests that carry a bearer token resolving to a
// Principal. Requests without a token, with an unknown token, or whose
// principal lacks a required scope do not match, so the chain moves on.
//
// Concurrent lookups of the same token share one Resolver call. Resolved
// principals are cached in the Store under the token digest.
type Router struct {
	resolver       Resolver
	store          Store
	logger         *slog.Logger
	group          singleflight.Group
	header         string
	scheme         string
	sources        []internal.ExtractorSource
	extractor      internal.Extractor
	scopes         []string
	cacheTTL       time.Duration
	resolveTimeout time.Duration
}

// Option configures a Router.
type Option func(*Router)

// WithStore caches resolved principals. Without a store every request hits
// the Resolver.
func WithStore(s Store) Option {
	return func(r *Router) { r.store = s }
}

// WithCacheTTL sets how long resolved principals stay cached. Default: 5 minutes.
func WithCacheTTL(d time.Duration) Option {
	return func(r *Router) { r.cacheTTL = d }
}

// WithResolveTimeout bounds a single Resolver call. Default: 3 seconds.
func WithResolveTimeout(d time.Duration) Option {
	return func(r *Router) {
		if d > 0 {
			r.resolveTimeout = d
		}
	}
}

// WithHeader reads the credential from a header other than Authorization.
func WithHeader(name string) Option {
	return func(r *Router) { r.header = name }
}

// WithScheme changes the expected auth scheme. An empty scheme takes the
// whole header value as the token.
func WithScheme(scheme string) Option {
	return func(r *Router) { r.scheme = scheme }
}

// WithTokenSources reads the token from the given sources, tried in order,
// instead of the auth header. Useful for query or cookie credentials.
//
//	principal.WithTokenSources(
//	    routekit.FromBearerToken(),
//	    routekit.FromCookie("access_token"),
//	)
func WithTokenSources(sources ...internal.ExtractorSource) Option {
	return func(r *Router) { r.sources = append(r.sources, sources...) }
}

// WithScopes requires the principal to hold every listed scope.
func WithScopes(scopes ...string) Option {
	return func(r *Router) { r.scopes = append(r.scopes, scopes...) }
}

// WithLogger sets the logger for resolver and store failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter creates a bearer-token Router over resolver.
// It panics if resolver is nil.
func NewRouter(resolver Resolver, opts ...Option) *Router {
	if resolver == nil {
		panic("principal: nil resolver")
	}
	r := &Router{
		resolver:       resolver,
		logger:         logger.NewNope(),
		header:         defaultHeader,
		scheme:         defaultScheme,
		cacheTTL:       defaultCacheTTL,
		resolveTimeout: defaultResolveTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	switch {
	case len(r.sources) > 0:
		r.extractor = internal.NewExtractor(r.sources...)
	case r.scheme == "":
		r.extractor = internal.NewExtractor(internal.FromHeader(r.header))
	default:
		r.extractor = internal.NewExtractor(internal.FromAuthScheme(r.header, r.scheme))
	}
	return r
}

// Match implements the routekit Router contract. It never mutates req.
func (r *Router) Match(ctx context.Context, req *internal.Request) (Principal, bool) {
	token, ok := r.token(req)
	if !ok {
		return Principal{}, false
	}
	p, err := r.lookup(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrUnknownToken) {
			r.logger.ErrorContext(ctx, "principal lookup failed", slog.Any("error", err))
		}
		return Principal{}, false
	}
	for _, s := range r.scopes {
		if !p.HasScope(s) {
			return Principal{}, false
		}
	}
	return p, true
}

// Invalidate drops the cached principal for token.
func (r *Router) Invalidate(ctx context.Context, token string) error {
	if r.store == nil {
		return nil
	}
	return r.store.Delete(ctx, HashToken(token))
}

func (r *Router) token(req *internal.Request) (string, bool) {
	return r.extractor.Extract(req)
}

func (r *Router) lookup(ctx context.Context, token string) (Principal, error) {
	key := HashToken(token)

	if r.store != nil {
		p, err := r.store.Get(ctx, key)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			r.logger.WarnContext(ctx, "principal store read failed", slog.Any("error", err))
		}
	}

	// The shared call outlives any single waiter.
	ch := r.group.DoChan(key, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.resolveTimeout)
		defer cancel()

		p, err := r.resolver.Resolve(rctx, token)
		if err != nil {
			return Principal{}, err
		}
		if r.store != nil {
			if err := r.store.Set(rctx, key, p, r.cacheTTL); err != nil {
				r.logger.WarnContext(ctx, "principal store write failed", slog.Any("error", err))
			}
		}
		return p, nil
	})

	select {
	case <-ctx.Done():
		return Principal{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Principal{}, res.Err
		}
		return res.Val.(Principal), nil
	}
}

// Challenge answers 401 with a WWW-Authenticate header. Place it after the
// protected routes so that requests the principal Router rejected end here
// instead of the not-found fallback.
func Challenge[C any](realm string) internal.Service[C] {
	value := defaultScheme
	if realm != "" {
		value += ` realm="` + realm + `"`
	}
	return internal.ServiceFunc[C](func(context.Context, *internal.Request, C) (*internal.Response, error) {
		return internal.Text(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized)+"\n").
			SetHeader("WWW-Authenticate", value), nil
	})
}
