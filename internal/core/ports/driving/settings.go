package driving

import "github.com/custodia-labs/lexbrief/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns current settings, with defaults for unset keys and
	// secrets taken from the environment.
	Get() (*domain.Settings, error)

	// Set stores a single setting by its dotted key (e.g. "retrieval.top_k").
	Set(key, value string) error

	// Keys lists the settable keys.
	Keys() []string

	// Validate checks the current settings.
	Validate() error
}
