package principal

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds connection parameters for the token database.
type PostgresConfig struct {
	ConnectionString  string        `env:"DATABASE_CONN_URL,required"`
	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`
	RetryAttempts     int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval     time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"5s"`
	MaxOpenConns      int32         `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MinConns          int32         `env:"DATABASE_MIN_CONNS" envDefault:"2"`
}

// ConnectPostgres opens a pgx pool and pings it, retrying with linear backoff.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionURL
	}
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	pc.MaxConns = cfg.MaxOpenConns
	pc.MinConns = cfg.MinConns
	pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.MaxConnLifetime = cfg.MaxConnLifetime

	for i := range max(cfg.RetryAttempts, 1) {
		pool, err := pgxpool.NewWithConfig(ctx, pc)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		if err := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}
	return nil, ErrConnectionFailed
}

// PostgresHealthcheck returns a readiness check that pings pool.
func PostgresHealthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if pool == nil {
			return ErrHealthcheckFailed
		}
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Querier is the subset of pgx used by PostgresResolver. *pgxpool.Pool,
// *pgx.Conn and pgx.Tx all satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresResolver looks tokens up by digest in a table shaped like:
//
//	CREATE TABLE api_tokens (
//	    token_hash  text PRIMARY KEY,
//	    id          text NOT NULL,
//	    subject     text NOT NULL,
//	    scopes      text[] NOT NULL DEFAULT '{}',
//	    expires_at  timestamptz,
//	    revoked_at  timestamptz
//	);
//
// Expired and revoked tokens are unknown.
type PostgresResolver struct {
	db    Querier
	query string
}

// NewPostgresResolver creates a resolver over table. An empty table name
// means "api_tokens".
func NewPostgresResolver(db Querier, table string) *PostgresResolver {
	if table == "" {
		table = "api_tokens"
	}
	return &PostgresResolver{
		db: db,
		query: "SELECT id, subject, scopes FROM " + pgx.Identifier{table}.Sanitize() +
			" WHERE token_hash = $1 AND revoked_at IS NULL AND (expires_at IS NULL OR expires_at > now())",
	}
}

// Resolve implements Resolver.
func (r *PostgresResolver) Resolve(ctx context.Context, token string) (Principal, error) {
	var p Principal
	err := r.db.QueryRow(ctx, r.query, HashToken(token)).Scan(&p.ID, &p.Subject, &p.Scopes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Principal{}, ErrUnknownToken
		}
		return Principal{}, err
	}
	return p, nil
}

var _ Resolver = (*PostgresResolver)(nil)
