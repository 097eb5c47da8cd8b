// Package principal provides a Router that authenticates requests by bearer
// token and produces the caller's Principal as the match context.
//
// Tokens are resolved by a pluggable Resolver (Static, PostgresResolver or
// any ResolverFunc). Results may be cached in a Store: MemoryStore for a
// single process, RedisStore when several instances share a cache. Concurrent
// lookups of the same token are collapsed into one Resolver call.
//
// A request without a valid token does not match, so a later route in the
// chain can handle it. Challenge builds the usual 401 fallback:
//
//	auth := principal.NewRouter(principal.NewPostgresResolver(pool, ""),
//	    principal.WithStore(principal.NewMemoryStore(time.Minute)),
//	    principal.WithScopes("read"),
//	)
//	chain := routekit.NewChain(routekit.WithRoutes(
//	    routekit.NewRoute[principal.Principal](auth, api).Homogenize(),
//	    routekit.NewRoute[struct{}](routekit.Any(), principal.Challenge[struct{}]("api")).Homogenize(),
//	))
//
// Only SHA-256 digests of tokens (HashToken) are ever stored or queried.
package principal
