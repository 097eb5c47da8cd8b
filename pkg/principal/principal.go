package principal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// Principal is the authenticated caller a bearer token resolves to.
type Principal struct {
	Claims  map[string]string `json:"claims,omitempty"`
	ID      string            `json:"id"`
	Subject string            `json:"subject"`
	Scopes  []string          `json:"scopes,omitempty"`
}

// HasScope reports whether the principal was granted scope.
func (p Principal) HasScope(scope string) bool {
	return slices.Contains(p.Scopes, scope)
}

// Resolver turns a raw bearer token into a Principal.
// Implementations return ErrUnknownToken for tokens they do not recognize.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Principal, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, token string) (Principal, error)

// Resolve calls f(ctx, token).
func (f ResolverFunc) Resolve(ctx context.Context, token string) (Principal, error) {
	return f(ctx, token)
}

// Static resolves tokens from a fixed table. Useful for service-to-service
// keys loaded from configuration.
func Static(tokens map[string]Principal) Resolver {
	table := make(map[string]Principal, len(tokens))
	for tok, p := range tokens {
		table[HashToken(tok)] = p
	}
	return ResolverFunc(func(_ context.Context, token string) (Principal, error) {
		p, ok := table[HashToken(token)]
		if !ok {
			return Principal{}, ErrUnknownToken
		}
		return p, nil
	})
}

// HashToken returns the hex SHA-256 of token. Stores and the Postgres
// resolver only ever see this digest, never the raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
