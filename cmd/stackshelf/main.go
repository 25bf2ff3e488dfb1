// Package main is the entry point for the StackShelf discovery API.
// It loads configuration, connects to PostgreSQL and Valkey, wires the
// discovery pipeline and starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stackshelf/internal/cache"
	"stackshelf/internal/catalog"
	"stackshelf/internal/config"
	"stackshelf/internal/database"
	"stackshelf/internal/discovery"
	"stackshelf/internal/handlers"
	"stackshelf/internal/middleware"
	"stackshelf/internal/pool"
	"stackshelf/internal/router"
	"stackshelf/internal/session"
	"stackshelf/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"page_size", cfg.PageSize,
		"pool_cache_ttl", cfg.PoolCacheTTL,
	)

	categories, err := catalog.Load(cfg.CategoriesFile)
	if err != nil {
		slog.Error("failed to load categories", "error", err, "file", cfg.CategoriesFile)
		os.Exit(1)
	}
	slog.Info("categories loaded", "count", categories.Len())

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if products already exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Valkey holds the shared pool snapshot and the sessions issued by the
	// auth service.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	productStore := store.NewProductStore(db)
	likeStore := store.NewLikeStore(db)

	loader := pool.NewLoader(
		productStore,
		likeStore,
		cache.NewPoolCache(valkeyClient, cfg.PoolCacheTTL),
		pool.DefaultBreakerSettings(),
	)
	pipeline := discovery.NewPipeline(loader, nil)

	api := handlers.NewDiscovery(pipeline, categories, productStore, loader, handlers.Options{
		PageSize:            cfg.PageSize,
		LeaderboardPageSize: cfg.LeaderboardPageSize,
	})

	searchLimiter := middleware.NewRateLimiter(cfg.SearchRateLimit, time.Minute)
	defer searchLimiter.Stop()

	r := router.New(session.NewStore(valkeyClient), api, loader, router.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SearchLimiter: searchLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
