package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	v1 "github.com/vversio/cinegrid/internal/api/v1"
	"github.com/vversio/cinegrid/internal/config"
	"github.com/vversio/cinegrid/internal/migrations"
	"github.com/vversio/cinegrid/internal/ratelimit"
	"github.com/vversio/cinegrid/internal/server"
	"github.com/vversio/cinegrid/internal/tmdb"
	"github.com/vversio/cinegrid/internal/watchlog"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func newRequestCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinegrid",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern and status.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(c)
	return c
}

func logRequests(next http.Handler, log *slog.Logger, requests *prometheus.CounterVec) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)

		// Pattern is set by the mux; unmatched paths share one series.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		requests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.status)).Inc()

		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func openDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// newHandler wires the API onto a mux. The tmdb client may be nil.
func newHandler(cfg *config.Config, db *sql.DB, tmdbClient *tmdb.Client, reg *prometheus.Registry, logger *slog.Logger) (http.Handler, error) {
	deps := v1.ServerDeps{Items: watchlog.NewStore(db)}
	if tmdbClient != nil {
		deps.Metadata = tmdbClient
	}

	apiV1, err := v1.New(deps, v1.Config{
		Version:  version,
		AdminKey: cfg.Auth.AdminKey,
	})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	apiV1.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return logRequests(mux, logger.With("component", "http"), newRequestCounter(reg)), nil
}

func newTMDBClient(cfg config.TMDBConfig, reg prometheus.Registerer, logger *slog.Logger) *tmdb.Client {
	if !cfg.Enabled() {
		return nil
	}
	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow,
		ratelimit.WithMetrics(ratelimit.NewMetrics(reg, "tmdb")),
	)
	return tmdb.NewClient(cfg.APIKey,
		tmdb.WithBaseURL(cfg.BaseURL),
		tmdb.WithLimiter(limiter),
		tmdb.WithCacheTTL(cfg.SearchTTL, cfg.DetailsTTL),
		tmdb.WithLogger(logger.With("component", "tmdb")),
	)
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tmdbClient := newTMDBClient(cfg.TMDB, reg, logger)

	handler, err := newHandler(cfg, db, tmdbClient, reg, logger)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"tmdb", tmdbClient != nil,
		"admin", cfg.Auth.AdminKey != "",
		"log_level", cfg.Server.LogLevel,
	)

	var pruner server.CachePruner
	if tmdbClient != nil {
		pruner = tmdbClient
	}
	runner := server.NewRunner(handler, server.Config{
		Addr:            addr,
		JanitorInterval: time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}, pruner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
