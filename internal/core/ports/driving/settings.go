package driving

import "github.com/custodia-labs/labelscan/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment overrides applied.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// Set stores a single configuration key after validating it.
	Set(key, value string) error

	// Keys returns the configuration keys that Set accepts.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
