package config

import (
	"fmt"
	"strings"

	"context-builder/internal/domain"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

const defaultWebhookEndpoint = "https://build.withcontext.ai/api/webhook/chat"

// AppConfig implements the domain.Config interface
type AppConfig struct {
	// Cloud Run (and many PaaS) provide the listening port via PORT.
	// Keep SERVER_PORT for local/dev compatibility.
	Port       string `env:"PORT"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile    string `env:"LOG_FILE"`

	SupabaseURL   string `env:"SUPABASE_URL"`
	SupabaseKey   string `env:"SUPABASE_ANON_KEY"`
	JWTSecret     string `env:"SUPABASE_JWT_SECRET"`
	StorageBucket string `env:"STORAGE_BUCKET" envDefault:"documents"`

	AppName           string `env:"APP_NAME" envDefault:"Context Builder"`
	AppLanguage       string `env:"APP_LANG" envDefault:"en"`
	AppDescription    string `env:"APP_DESCRIPTION" envDefault:"Build AI apps on your own context"`
	FontFamily        string `env:"FONT_FAMILY" envDefault:"Inter"`
	FontClass         string `env:"FONT_CLASS" envDefault:"font-inter"`
	FontStylesheetURL string `env:"FONT_STYLESHEET_URL" envDefault:"https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600&display=swap"`
	AfterSignUpURL    string `env:"AFTER_SIGN_UP_URL" envDefault:"/"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173"`
	APIRequireAuth     bool     `env:"API_REQUIRE_AUTH" envDefault:"true"`

	WebhookEndpoint string `env:"WEBHOOK_ENDPOINT" envDefault:"https://build.withcontext.ai/api/webhook/chat"`
	DatasetWorkers  int    `env:"DATASET_WORKERS" envDefault:"8"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// NewConfig creates a new configuration instance from the environment
func NewConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}

	tag, err := language.Parse(cfg.AppLanguage)
	if err != nil {
		return nil, fmt.Errorf("parse env: APP_LANG %q: %w", cfg.AppLanguage, err)
	}
	cfg.AppLanguage = tag.String()

	if cfg.DatasetWorkers <= 0 {
		cfg.DatasetWorkers = 1
	}
	if strings.TrimSpace(cfg.WebhookEndpoint) == "" {
		cfg.WebhookEndpoint = defaultWebhookEndpoint
	}
	return cfg, nil
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	if c.Port != "" {
		return c.Port
	}
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFile returns the rotating log file path; empty means stdout
func (c *AppConfig) GetLogFile() string {
	return c.LogFile
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetJWTSecret returns the Supabase JWT secret
func (c *AppConfig) GetJWTSecret() string {
	return c.JWTSecret
}

// GetStorageBucket returns the storage bucket holding uploaded documents
func (c *AppConfig) GetStorageBucket() string {
	return c.StorageBucket
}

func (c *AppConfig) GetAppName() string {
	return c.AppName
}

func (c *AppConfig) GetAppLanguage() string {
	return c.AppLanguage
}

func (c *AppConfig) GetAppDescription() string {
	return c.AppDescription
}

// GetFont returns the typeface applied to every page
func (c *AppConfig) GetFont() domain.Font {
	return domain.Font{
		Family:        c.FontFamily,
		ClassName:     c.FontClass,
		StylesheetURL: c.FontStylesheetURL,
	}
}

func (c *AppConfig) GetAfterSignUpURL() string {
	return c.AfterSignUpURL
}

func (c *AppConfig) GetCORSAllowedOrigins() []string {
	return c.CORSAllowedOrigins
}

func (c *AppConfig) GetAPIRequireAuth() bool {
	return c.APIRequireAuth
}

func (c *AppConfig) GetWebhookEndpoint() string {
	return c.WebhookEndpoint
}

func (c *AppConfig) GetDatasetWorkers() int {
	return c.DatasetWorkers
}

func (c *AppConfig) GetOTelEndpoint() string {
	return c.OTelEndpoint
}

// GetOTelEnabled reports whether tracing is enabled; an empty endpoint disables it too
func (c *AppConfig) GetOTelEnabled() bool {
	return c.OTelEnabled && c.OTelEndpoint != ""
}
