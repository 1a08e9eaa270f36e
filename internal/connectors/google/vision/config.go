package vision

import (
	"net/http"
	"time"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// DefaultEndpoint is the REST annotate endpoint.
const DefaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// Config holds Cloud Vision client configuration.
type Config struct {
	// APIKey enables the REST transport.
	APIKey string
	// CredentialsFile selects service-account credentials for the SDK transport.
	// Empty means application default credentials.
	CredentialsFile string
	// DisableSDK skips the SDK transport even if credentials resolve.
	DisableSDK bool

	RESTTimeout time.Duration
	SDKTimeout  time.Duration
	MaxAttempts int
	BaseDelay   time.Duration

	// RequestsPerSecond bounds the request rate across all transports.
	RequestsPerSecond float64

	// Endpoint overrides the REST endpoint (tests).
	Endpoint string
	// HTTPClient overrides the REST HTTP client.
	HTTPClient *http.Client
	// LanguageHints are passed to the annotate request.
	LanguageHints []string
}

// ConfigFromSettings builds a client configuration from application settings.
func ConfigFromSettings(s domain.VisionSettings) Config {
	return Config{
		APIKey:            s.APIKey,
		CredentialsFile:   s.CredentialsFile,
		RESTTimeout:       s.RESTTimeout,
		SDKTimeout:        s.SDKTimeout,
		MaxAttempts:       s.MaxAttempts,
		BaseDelay:         s.BaseDelay,
		RequestsPerSecond: s.RequestsPerSecond,
		LanguageHints:     s.LanguageHints,
	}
}

// withDefaults fills zero values from the application defaults.
func (c Config) withDefaults() Config {
	d := domain.DefaultSettings().Vision
	if c.RESTTimeout <= 0 {
		c.RESTTimeout = d.RESTTimeout
	}
	if c.SDKTimeout <= 0 {
		c.SDKTimeout = d.SDKTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = d.BaseDelay
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if len(c.LanguageHints) == 0 {
		c.LanguageHints = []string{"en"}
	}
	return c
}
