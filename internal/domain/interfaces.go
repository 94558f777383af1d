package domain

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetLogFile() string

	GetSupabaseURL() string
	GetSupabaseKey() string
	GetJWTSecret() string
	GetStorageBucket() string

	GetAppName() string
	GetAppLanguage() string
	GetAppDescription() string
	GetFont() Font
	GetAfterSignUpURL() string

	GetCORSAllowedOrigins() []string
	GetAPIRequireAuth() bool

	GetWebhookEndpoint() string
	GetDatasetWorkers() int

	GetOTelEndpoint() string
	GetOTelEnabled() bool
}

// Font describes the typeface applied by the root layout.
type Font struct {
	Family        string
	ClassName     string
	StylesheetURL string
}
