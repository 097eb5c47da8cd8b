package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParse is returned when environment variables cannot be decoded into
// the target struct.
var ErrParse = errors.New("config: failed to parse environment")

type options struct {
	files  []string
	prefix string
	env    map[string]string
}

// Option configures Load.
type Option func(*options)

// WithDotenv loads variables from the given files before parsing. Missing
// files are skipped; variables already set in the process win.
// Default: ".env".
func WithDotenv(files ...string) Option {
	return func(o *options) { o.files = files }
}

// WithPrefix only considers variables starting with prefix, which is
// stripped before matching struct tags.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvironment parses from env instead of the process environment.
// Dotenv files are not read in this mode.
func WithEnvironment(env map[string]string) Option {
	return func(o *options) { o.env = env }
}

// Load parses the environment into a new T using `env` and `envDefault`
// struct tags.
//
// Example:
//
//	type Config struct {
//	    Addr  string `env:"ADDR" envDefault:":8080"`
//	    Redis string `env:"REDIS_URL"`
//	}
//	cfg, err := config.Load[Config]()
func Load[T any](opts ...Option) (T, error) {
	o := &options{files: []string{".env"}}
	for _, opt := range opts {
		opt(o)
	}

	var cfg T
	eo := env.Options{Prefix: o.prefix}
	if o.env != nil {
		eo.Environment = o.env
	} else if err := loadDotenv(o.files); err != nil {
		return cfg, err
	}

	if err := env.ParseWithOptions(&cfg, eo); err != nil {
		return cfg, errors.Join(ErrParse, err)
	}
	return cfg, nil
}

// MustLoad is Load for binaries: it logs and exits on failure.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func loadDotenv(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
