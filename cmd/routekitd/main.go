// Command routekitd serves a routekit chain assembled from the environment:
// health probes, Prometheus metrics, token-protected object storage, and a
// YAML table of canned routes.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/middlewares"
	"github.com/dmitrymomot/routekit/pkg/config"
	"github.com/dmitrymomot/routekit/pkg/health"
	"github.com/dmitrymomot/routekit/pkg/httpx"
	"github.com/dmitrymomot/routekit/pkg/logger"
	"github.com/dmitrymomot/routekit/pkg/metrics"
	"github.com/dmitrymomot/routekit/pkg/principal"
	"github.com/dmitrymomot/routekit/pkg/routetable"
	"github.com/dmitrymomot/routekit/pkg/storage"
)

// Config is the daemon configuration, read from the environment and .env.
type Config struct {
	Log     logger.Config
	Storage storage.Config

	Addr            string            `env:"ADDR" envDefault:":8080"`
	Transport       string            `env:"TRANSPORT" envDefault:"http"`
	H2C             bool              `env:"H2C"`
	Hosts           []string          `env:"HOSTS" envSeparator:","`
	RoutesFile      string            `env:"ROUTES_FILE"`
	RedisURL        string            `env:"REDIS_URL"`
	Tokens          map[string]string `env:"API_TOKENS"`
	TokenTable      string            `env:"TOKEN_TABLE" envDefault:"api_tokens"`
	CORSOrigins     []string          `env:"CORS_ORIGINS" envSeparator:","`
	RequestTimeout  time.Duration     `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration     `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxBodySize     int64             `env:"MAX_BODY_SIZE" envDefault:"10485760"`
}

func main() {
	cfg := config.MustLoad[Config]()
	log := logger.New(cfg.Log,
		middlewares.RequestIDExtractor(),
		middlewares.RouteNameExtractor(),
	)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	d := deps{
		log:    log,
		checks: health.Checks{},
	}
	var hooks []routekit.RunOption

	// Principal cache: Redis when configured, in-process otherwise.
	if cfg.RedisURL != "" {
		rdb, err := principal.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		d.store = principal.NewRedisStore(rdb, "routekit:principal", 5*time.Minute)
		d.checks["redis"] = principal.RedisHealthcheck(rdb)
		hooks = append(hooks, routekit.ShutdownHook(principal.Shutdown(rdb)))
	} else {
		mem := principal.NewMemoryStore(time.Minute)
		d.store = mem
		hooks = append(hooks, routekit.ShutdownHook(principal.Shutdown(mem)))
	}

	// Token resolver: Postgres when configured, static tokens otherwise.
	if os.Getenv("DATABASE_CONN_URL") != "" {
		pgCfg, err := config.Load[principal.PostgresConfig]()
		if err != nil {
			return err
		}
		pool, err := principal.ConnectPostgres(ctx, pgCfg)
		if err != nil {
			return err
		}
		d.resolver = principal.NewPostgresResolver(pool, cfg.TokenTable)
		d.checks["postgres"] = principal.PostgresHealthcheck(pool)
		hooks = append(hooks, routekit.ShutdownHook(func(context.Context) error {
			pool.Close()
			return nil
		}))
	} else {
		d.resolver = staticTokens(cfg.Tokens)
	}

	if cfg.Storage.Enabled() {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}
		d.objects = client
		d.bucket = cfg.Storage.Bucket
		d.checks["storage"] = storage.Healthcheck(client, cfg.Storage.Bucket)
	}

	if cfg.RoutesFile != "" {
		table, err := routetable.LoadFile(cfg.RoutesFile)
		if err != nil {
			return err
		}
		d.table = table
	}

	d.metrics = metrics.New()
	d.hosts = cfg.Hosts
	d.corsOrigins = cfg.CORSOrigins
	d.timeout = cfg.RequestTimeout
	d.maxBodySize = cfg.MaxBodySize

	chain := buildChain(d)

	opts := []httpx.Option{
		httpx.WithLogger(log),
		httpx.WithMaxRequestBodySize(int(cfg.MaxBodySize)),
	}
	var srv routekit.Server
	switch cfg.Transport {
	case "fasthttp":
		srv = httpx.NewFastServer(chain, opts...)
	default:
		if cfg.H2C {
			opts = append(opts, httpx.WithH2C())
		}
		srv = httpx.NewServer(chain, opts...)
	}

	return routekit.Run(srv, append(hooks,
		routekit.Address(cfg.Addr),
		routekit.Logger(log),
		routekit.ShutdownTimeout(cfg.ShutdownTimeout),
		routekit.WithContext(ctx),
	)...)
}

func staticTokens(tokens map[string]string) principal.Resolver {
	m := make(map[string]principal.Principal, len(tokens))
	for token, subject := range tokens {
		m[token] = principal.Principal{
			ID:      subject,
			Subject: subject,
			Scopes:  []string{scopeFilesRead, scopeFilesWrite},
		}
	}
	return principal.Static(m)
}
