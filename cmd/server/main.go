package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"context-builder/internal/config"
	"context-builder/internal/handler"
	"context-builder/internal/telemetry"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	serviceName     = "context-builder"
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx := context.Background()

	// Metrics first so instruments created during wiring are exported
	metrics, err := telemetry.SetupMetrics(ctx, serviceName)
	if err != nil {
		log.Fatalf("Failed to set up metrics: %v", err)
	}

	// Wiring
	container, err := config.NewContainer()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := container.Config

	shutdownTracing, err := telemetry.SetupTracing(ctx, serviceName, cfg.GetOTelEndpoint(), cfg.GetOTelEnabled())
	if err != nil {
		container.Logger.Error("Tracing disabled", err)
	}

	// Handlers
	authMiddleware := handler.NewAuthMiddleware(
		container.AuthService,
		container.Logger,
	)
	pageHandler := handler.NewPageHandler(
		container.AuthService,
		container.Logger,
		container.Layout(),
		cfg.GetAfterSignUpURL(),
	)
	authHandler := handler.NewAuthHandler(
		container.Logger,
	)
	datasetHandler := handler.NewDatasetHandler(
		container.DatasetService,
		container.Logger,
	)

	// Router
	router := handler.NewRouter(
		pageHandler,
		authHandler,
		datasetHandler,
		authMiddleware,
		handler.RouterOptions{
			CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
			RequireAPIAuth:     cfg.GetAPIRequireAuth(),
			Metrics:            metrics.Handler(),
		},
	)

	// start server
	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown failed", err)
	}
	if err := container.DatasetService.Close(shutdownCtx); err != nil {
		container.Logger.Error("Dataset jobs did not finish", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		container.Logger.Error("Tracer shutdown failed", err)
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Meter shutdown failed", err)
	}

	container.Logger.Info("Server exited")
}
