package config

import (
	"net/http"
	"time"

	"context-builder/internal/domain"
	"context-builder/internal/infra/supabase"
	"context-builder/internal/repository"
	"context-builder/internal/service"
	"context-builder/internal/web"
	"context-builder/internal/web/authctx"
	"context-builder/pkg/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const outboundTimeout = 60 * time.Second

// Container holds all application dependencies
type Container struct {
	Config         *AppConfig
	Logger         domain.Logger
	SupabaseClient domain.SupabaseClient
	AuthService    domain.AuthService
	DatasetService domain.DatasetService
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	config, err := NewConfig()
	if err != nil {
		return nil, err
	}

	appLogger := logger.NewLogger(config.GetLogLevel())
	if config.GetLogFile() != "" {
		appLogger = logger.NewFileLogger(config.GetLogLevel(), config.GetLogFile())
	}

	// Initialize Supabase client; the server still starts without it so
	// pages and health checks stay reachable.
	supabaseClient := supabase.NewSupabaseClient(config, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		appLogger.Warn("Supabase client not initialized", "error", err)
	}

	// Initialize repositories
	datasetRepo := repository.NewSupabaseDatasetRepository(supabaseClient, appLogger)
	annotatedRepo := repository.NewAnnotatedDataRepository(supabaseClient)

	// Outbound calls carry the trace context of the job that made them
	httpClient := &http.Client{
		Timeout:   outboundTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	// Initialize services
	loader := service.NewDocumentLoader(
		service.NewContentFetcher(supabaseClient, config.GetStorageBucket(), httpClient),
		annotatedRepo,
		service.NewPDFExtractor(appLogger),
		appLogger,
	)
	notifier := service.NewWebhookNotifier(config.GetWebhookEndpoint(), httpClient, appLogger)

	return &Container{
		Config:         config,
		Logger:         appLogger,
		SupabaseClient: supabaseClient,
		AuthService:    service.NewAuthService(supabaseClient, appLogger),
		DatasetService: service.NewDatasetService(datasetRepo, loader, notifier, appLogger, config.GetDatasetWorkers()),
	}, nil
}

// Layout returns the root layout settings shared by every page
func (c *Container) Layout() web.LayoutOptions {
	return web.LayoutOptions{
		Title:       c.Config.GetAppName(),
		Description: c.Config.GetAppDescription(),
		Lang:        c.Config.GetAppLanguage(),
		Font:        c.Config.GetFont(),
		Auth: authctx.ProviderConfig{
			Name:      "supabase",
			URL:       c.Config.GetSupabaseURL(),
			PublicKey: c.Config.GetSupabaseKey(),
		},
	}
}
