// Package main provides the MCP server entry point for the Panopticon catalog.
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

	"github.com/joho/godotenv"

	"github.com/bull/panopticon/internal/catalog"
	"github.com/bull/panopticon/internal/config"
	mcpserver "github.com/bull/panopticon/internal/mcp"
	"github.com/bull/panopticon/internal/xref"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	store := catalog.NewStore(cfg.CatalogDir)
	if err := store.Health(ctx); err != nil {
		logger.Warn("Catalog not found; run analyze to build it", "catalog", cfg.CatalogDir, "error", err)
	}

	validator, err := xref.NewValidator(xref.Options{
		WorkDir: cfg.Root,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("Failed to create validator", "error", err)
		os.Exit(1)
	}

	server := mcpserver.NewServer(&mcpserver.Config{
		Store:     store,
		Validator: validator,
		Root:      cfg.Root,
		Logger:    logger,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(store))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, &mcpserver.HTTPHandlerOptions{Stateless: true}))
	mux.HandleFunc("/", mcpserver.NewLandingHandler())

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	if cfg.Server.HTTPMode {
		// HTTP mode: serve MCP over HTTP for remote clients
		logger.Info("Starting HTTP server (MCP at /mcp, health at /health)", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
		return
	}

	// Stdio mode: MCP over stdin/stdout, health endpoint in the background
	go func() {
		logger.Info("Starting health server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Health server error", "error", err)
		}
	}()

	if err := server.Run(ctx); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
