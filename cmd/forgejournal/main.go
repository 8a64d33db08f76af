// Package main is the entry point for the Forge Journal server.
// It loads configuration, connects to services, sets up routing, starts
// the scheduled-publish sweeper, and runs the HTTP server with graceful
// shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forgejournal/internal/cache"
	"forgejournal/internal/config"
	"forgejournal/internal/database"
	"forgejournal/internal/handlers"
	"forgejournal/internal/publish"
	"forgejournal/internal/router"
	"forgejournal/internal/store"
	"forgejournal/internal/sweeper"
)

func main() {
	// Structured logger.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from file and environment.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"sweep_interval", cfg.SweepInterval,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey. The feed cache is optional: a cache outage must
	// not take down publishing, so failures here only disable caching.
	var feedCache *cache.FeedCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, feed caching disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		feedCache = cache.NewFeedCache(valkeyClient, cache.DefaultFeedTTL)
	}

	// Initialize data stores.
	postStore := store.NewPostStore(db)
	authorStore := store.NewAuthorStore(db)
	topicStore := store.NewTopicStore(db)
	adStore := store.NewAdStore(db)

	// Publication lifecycle service and the background sweeper.
	publishService := publish.NewService(postStore, nil, cfg.SweepTimeout)

	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	defer stopSweeps()
	sw := sweeper.New(publishService, feedCache, cfg.SweepInterval)
	sw.Start(sweepCtx)

	// Create handler groups with their dependencies.
	publishHandlers := handlers.NewPublish(publishService, feedCache)
	adminHandlers := handlers.NewAdmin(postStore, adStore, feedCache)
	publicHandlers := handlers.NewPublic(postStore, authorStore, topicStore, adStore, feedCache, nil)

	// Set up the Chi router with all middleware and routes.
	r := router.New(publishHandlers, adminHandlers, publicHandlers, cfg.SweepSecret)
	if cfg.SweepSecret == "" {
		slog.Warn("SWEEP_SECRET not set, POST /sweep is disabled")
	}

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// a full sweep triggered over HTTP.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.SweepTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Stop the sweeper first so no new publishes start mid-shutdown.
	sw.Stop()
	stopSweeps()

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
