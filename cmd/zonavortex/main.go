// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Zona Vortex API server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zonavortex/internal/cache"
	"zonavortex/internal/config"
	"zonavortex/internal/database"
	"zonavortex/internal/handlers"
	"zonavortex/internal/router"
	"zonavortex/internal/session"
	"zonavortex/internal/storage"
	"zonavortex/internal/store"
	"zonavortex/internal/taxonomy"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
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

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Mark session cookies Secure (HTTPS-only) outside development.
	sessionStore := session.NewStore(valkeyClient, !cfg.IsDev())

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	sectionStore := store.NewSectionStore(db)
	categoryStore := store.NewCategoryStore(db)
	subcategoryStore := store.NewSubcategoryStore(db)
	postStore := store.NewPostStore(db)
	editStore := store.NewPostEditStore(db)
	commentStore := store.NewCommentStore(db)
	paymentStore := store.NewPaymentStore(db)
	settingsStore := store.NewSettingsStore(db)

	// Connect to S3-compatible object storage (optional — the app works
	// without it, with uploads and downloads disabled).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured — uploads and downloads disabled")
	}

	// Taxonomy resolver and the Valkey-backed response cache.
	resolver := taxonomy.NewResolver(sectionStore, categoryStore, subcategoryStore)
	respCache := cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(userStore, sectionStore, categoryStore,
		subcategoryStore, postStore, editStore, commentStore, settingsStore,
		storageClient, respCache)
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	publicHandlers := handlers.NewPublic(resolver, sectionStore, postStore,
		commentStore, paymentStore, settingsStore, storageClient, respCache)
	paymentHandlers := handlers.NewPayments(paymentStore, cfg.PaymentWebhookSecret)

	// Set up the Chi router with all middleware and routes.
	r, commentLimiter := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers, paymentHandlers)
	defer commentLimiter.Stop()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
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
