package driving

import "github.com/custodia-labs/examprep/internal/core/domain"

// SettingsService resolves application settings.
type SettingsService interface {
	// Get merges configuration and credentials over the built-in defaults.
	Get() (*domain.AppSettings, error)

	// Validate checks that the configured provider can be used.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
