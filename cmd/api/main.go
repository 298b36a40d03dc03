// Package main is the entry point for the Trip Planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/provider"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Trip document store ----------------------------------------------
	store, cleanup, err := newStore(cfg)
	if err != nil {
		slog.Error("failed to initialize trip store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()
	slog.Info("trip store ready", "backend", cfg.StoreBackend)

	// --- Core wiring -------------------------------------------------------
	// The planner owns the current trip snapshot; the route cache observes it
	// and refills driving segments through the OSRM provider. Two-step wiring
	// because each side needs the other.
	planner := service.NewPlanner(store, logger)
	cache := service.NewRouteCache(provider.NewOSRM(cfg.OSRMBaseURL), planner, logger)
	planner.AttachCache(cache)

	if err := planner.Restore(context.Background()); err != nil {
		slog.Warn("failed to restore persisted trip", "error", err)
	}

	cacheCtx, stopCache := context.WithCancel(context.Background())
	defer stopCache()
	go cache.Run(cacheCtx)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes))

	r.Mount("/", handler.NewServer(planner).Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")
	stopCache()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newStore builds the configured TripStore. The returned cleanup closes any
// underlying connections and is safe to call once.
func newStore(cfg config.Config) (repo.TripStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := newPostgresPool(cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		return repo.NewPostgresTripStore(pool), pool.Close, nil

	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, func() {}, err
		}
		client := redis.NewClient(opts)
		if err := pingWithRetry(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}); err != nil {
			client.Close()
			return nil, func() {}, err
		}
		return repo.NewRedisTripStore(client), func() { client.Close() }, nil

	default:
		return repo.NewMemoryTripStore(), func() {}, nil
	}
}

// newPostgresPool opens the pgx pool, waits for the database to come up, and
// applies pending migrations.
func newPostgresPool(databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pingWithRetry(pool.Ping); err != nil {
		pool.Close()
		return nil, err
	}

	// goose needs database/sql, not a pgx pool; open a short-lived connection
	// just for migrations.
	migDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migDB.Close()

	gooseProvider, err := goose.NewProvider(goose.DialectPostgres, migDB, migrations.FS)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := gooseProvider.Up(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// pingWithRetry retries a readiness ping with exponential backoff, covering
// the common case of the backing service still starting up alongside us.
func pingWithRetry(ping func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(ping(ctx))
	})
}
