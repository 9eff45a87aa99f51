// Package server runs the HTTP API alongside its background maintenance.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config for the server runner.
type Config struct {
	Addr            string        // listen address, e.g. "0.0.0.0:8585"
	JanitorInterval time.Duration // how often expired cache entries are dropped; 0 disables
	ShutdownTimeout time.Duration
}

// CachePruner drops expired cache entries and reports how many were removed.
type CachePruner interface {
	PruneCache() int
}

// Runner manages the HTTP server and the cache janitor.
type Runner struct {
	handler http.Handler
	config  Config
	pruner  CachePruner // nil when nothing is cached
	logger  *slog.Logger

	ready chan struct{}
	addr  net.Addr
}

// NewRunner creates a new runner.
func NewRunner(handler http.Handler, cfg Config, pruner CachePruner, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Runner{
		handler: handler,
		config:  cfg,
		pruner:  pruner,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the listener is bound.
func (r *Runner) Ready() <-chan struct{} {
	return r.ready
}

// Addr returns the bound address. Only valid after Ready is closed.
func (r *Runner) Addr() net.Addr {
	return r.addr
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
// It returns nil on a clean shutdown.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	r.addr = ln.Addr()
	close(r.ready)

	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("server listening", "addr", r.addr.String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		r.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if r.pruner != nil && r.config.JanitorInterval > 0 {
		g.Go(func() error {
			r.runJanitor(gctx)
			return nil
		})
	}

	return g.Wait()
}

func (r *Runner) runJanitor(ctx context.Context) {
	log := r.logger.With("component", "janitor")
	ticker := time.NewTicker(r.config.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.pruner.PruneCache(); n > 0 {
				log.Debug("pruned cache", "removed", n)
			}
		}
	}
}
