package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/fadhlanhapp/courtsplit-backend/config"
	"github.com/fadhlanhapp/courtsplit-backend/logging"
	"github.com/fadhlanhapp/courtsplit-backend/repository"
	"github.com/fadhlanhapp/courtsplit-backend/routes"
	"github.com/fadhlanhapp/courtsplit-backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	// Initialize New Relic
	var app *newrelic.Application
	if cfg.NewRelicLicense != "" {
		app, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelicAppName),
			newrelic.ConfigLicense(cfg.NewRelicLicense),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			slog.Warn("Failed to initialize New Relic", "error", err)
		}
	}

	// Initialize storage
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	repo, err := repository.Open(ctx, cfg.Storage)
	cancel()
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}

	// Initialize services
	matchService := services.NewMatchService(repo)

	// Set up Gin router
	router := gin.Default()

	// Add New Relic middleware
	if app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Set up routes
	routes.SetupRoutes(router, matchService)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server and wait for a termination signal
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Server starting", "port", cfg.Port, "backend", cfg.Storage.Backend)
	if err := serve(sigCtx, server, repo); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shutdown complete")
}

// serve runs server until ctx is cancelled or the listener fails, then
// drains in-flight requests and closes the repository.
func serve(ctx context.Context, server *http.Server, repo io.Closer) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown started")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			serveErr = fmt.Errorf("shutdown failed: %w", err)
		}
	}

	if err := repo.Close(); err != nil {
		slog.Error("Failed to close storage", "error", err)
		if serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}
