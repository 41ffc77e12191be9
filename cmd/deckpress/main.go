// Package main is the entry point for the DeckPress server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deckpress/internal/ai"
	"deckpress/internal/cache"
	"deckpress/internal/config"
	"deckpress/internal/database"
	"deckpress/internal/geo"
	"deckpress/internal/handlers"
	"deckpress/internal/render"
	"deckpress/internal/router"
	"deckpress/internal/secrets"
	"deckpress/internal/session"
	"deckpress/internal/storage"
	"deckpress/internal/store"
)

// devCredentialSecret is a fixed key used only when no CREDENTIAL_SECRET is
// configured in development. config.Load rejects this situation in production.
const devCredentialSecret = "6465636b70726573732d6465762d6f6e6c792d6b65792d33322d627974657321"

func main() {
	// Structured logger — outputs JSON in production, text in development.
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

	// Initialize session store backed by Valkey.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Symmetric box protecting stored provider API keys.
	credentialSecret := cfg.CredentialSecret
	if credentialSecret == "" {
		slog.Warn("CREDENTIAL_SECRET not set — using the built-in development key")
		credentialSecret = devCredentialSecret
	}
	box, err := secrets.NewBox(credentialSecret)
	if err != nil {
		slog.Error("failed to initialize credential box", "error", err)
		os.Exit(1)
	}

	// Initialize the local preview renderer.
	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize preview renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	templateStore := store.NewTemplateStore(db)
	libraryStore := store.NewLibraryStore(db)
	proposalStore := store.NewProposalStore(db)

	// Connect to S3-compatible object storage (optional — screenshot
	// archival is skipped without it).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"bucket", cfg.S3Bucket,
			)
		}
	} else {
		slog.Warn("s3 storage not configured — screenshot archival disabled")
	}

	// Chat-completion client; per-user keys come out of the credential box
	// at request time.
	invoker := ai.NewClient(cfg.OpenAIBaseURL)

	// Best-effort geo lookup for proposal view tracking.
	geoClient := geo.NewClient(cfg.GeoBaseURL)

	// Per-user last-deck cache in Valkey.
	deckCache := cache.NewDeckCache(valkeyClient, cache.DefaultDeckTTL)

	// Create handler groups with their dependencies.
	g := router.Groups{
		Auth:          handlers.NewAuth(sessionStore, userStore),
		Templates:     handlers.NewTemplates(templateStore),
		Decks:         handlers.NewDecks(userStore, templateStore, libraryStore, invoker, box, deckCache, renderer),
		Presentations: handlers.NewPresentations(userStore, libraryStore, invoker, box, deckCache),
		Libraries:     handlers.NewLibraries(userStore, libraryStore, templateStore, invoker, box, storageClient),
		Proposals:     handlers.NewProposals(proposalStore, geoClient),
		Settings:      handlers.NewSettings(userStore, invoker, box),
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, g)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate generation endpoints that wait on model
	// responses (typically 10-30s, up to 60s for long decks).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
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

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
