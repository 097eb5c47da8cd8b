package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/routekit/pkg/logger"
)

const (
	defaultAddress         = ":8080"
	defaultShutdownTimeout = 30 * time.Second
)

// Server is the part of a transport server the runtime drives.
// *http.Server satisfies it directly; pkg/httpx wraps fasthttp.
type Server interface {
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// Run listens on the configured address, serves srv and blocks until
// SIGINT/SIGTERM, base-context cancellation, or a serve error.
// Shutdown runs the server's graceful shutdown followed by the shutdown
// hooks, all bounded by the shutdown timeout.
//
// Example:
//
//	srv := httpx.NewServer(chain)
//	err := routekit.Run(srv,
//	    routekit.Address(":8080"),
//	    routekit.Logger(log),
//	)
func Run(srv Server, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	return runServer(srv, cfg)
}

func runServer(srv Server, cfg *runConfig) error {
	log := cfg.logger
	if log == nil {
		log = logger.NewNope()
	}

	baseCtx := cfg.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			return err
		}
	}

	// Listen first to get actual address
	ln, err := net.Listen("tcp", cfg.address)
	if err != nil {
		return err
	}
	if cfg.onListen != nil {
		cfg.onListen(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	var errs []error

	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		log.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}
