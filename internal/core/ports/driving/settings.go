package driving

import "github.com/Shaun-Gulati/internal-assistant/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetStorage configures where and how the store is persisted.
	SetStorage(path string, backend domain.StorageBackend) error

	// SetChunking configures the chunk size and overlap.
	SetChunking(chunkSize, overlap int) error

	// SetDefaultRole configures the role used when none is given.
	SetDefaultRole(role domain.Role) error

	// Validate checks that current settings are consistent.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error
}
