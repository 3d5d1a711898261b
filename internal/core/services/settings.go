package services

import (
	"fmt"
	"path/filepath"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedRate      = "embedding.requests_per_second"
	keyStoragePath    = "storage.path"
	keyStorageBackend = "storage.backend"
	keyChunkSize      = "chunking.chunk_size"
	keyChunkOverlap   = "chunking.overlap"
	keySearchLimit    = "search.default_limit"
	keyDefaultRole    = "role.default"
	keyAccessPrefix   = "access."
)

// DefaultStoreDirName is the store directory created next to the config file
// when storage.path is not set.
const DefaultStoreDirName = "vector_db"

const defaultOllamaURL = "http://localhost:11434"

// SettingsService reads and writes application settings through a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
// The aiValidator may be nil, which skips live validation.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get builds settings from defaults overlaid with stored values.
// Invalid stored values fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Embedding.Provider)
	model := s.configStore.GetString(keyEmbedModel)
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          provider,
			Model:             model,
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL),
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRate),
		},
		Storage: domain.StorageSettings{
			Path:    s.getString(keyStoragePath, s.defaultStorePath()),
			Backend: s.getBackend(defaults.Storage.Backend),
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize: s.getPositiveInt(keyChunkSize, defaults.Chunking.ChunkSize),
			Overlap:   defaults.Chunking.Overlap,
		},
		Search: domain.SearchSettings{
			DefaultLimit: s.getPositiveInt(keySearchLimit, defaults.Search.DefaultLimit),
		},
		DefaultRole: s.getRole(defaults.DefaultRole),
		Access:      s.getAccessPolicy(defaults.Access),
	}

	if _, ok := s.configStore.Get(keyChunkOverlap); ok {
		overlap := s.configStore.GetInt(keyChunkOverlap)
		if overlap >= 0 && overlap < settings.Chunking.ChunkSize {
			settings.Chunking.Overlap = overlap
		}
	}
	if settings.Chunking.Overlap >= settings.Chunking.ChunkSize {
		settings.Chunking.Overlap = settings.Chunking.ChunkSize / 4
	}

	return settings, nil
}

// SetEmbeddingProvider configures the embedding provider.
// An empty model selects the provider's default.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && !domain.HasUsableAPIKey(apiKey) {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	baseURL := ""
	if provider.IsLocal() {
		baseURL = s.configStore.GetString(keyEmbedBaseURL)
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
	}

	updates := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, provider.String()},
		{keyEmbedModel, model},
		{keyEmbedBaseURL, baseURL},
		{keyEmbedAPIKey, apiKey},
	}
	for _, u := range updates {
		if err := s.configStore.Set(u.key, u.value); err != nil {
			return fmt.Errorf("save %s: %w", u.key, err)
		}
	}
	return nil
}

// SetStorage configures the store directory and backend.
// An empty path restores the default location.
func (s *SettingsService) SetStorage(path string, backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, backend)
	}
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("%w: storage path: %w", domain.ErrInvalidInput, err)
		}
		path = abs
	}

	if err := s.configStore.Set(keyStoragePath, path); err != nil {
		return fmt.Errorf("save %s: %w", keyStoragePath, err)
	}
	if err := s.configStore.Set(keyStorageBackend, backend.String()); err != nil {
		return fmt.Errorf("save %s: %w", keyStorageBackend, err)
	}
	return nil
}

// SetChunking configures the chunk size and overlap.
func (s *SettingsService) SetChunking(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
	}
	if overlap < 0 || overlap >= chunkSize {
		return fmt.Errorf("%w: overlap must be in [0, %d)", domain.ErrInvalidInput, chunkSize)
	}

	if err := s.configStore.Set(keyChunkSize, chunkSize); err != nil {
		return fmt.Errorf("save %s: %w", keyChunkSize, err)
	}
	if err := s.configStore.Set(keyChunkOverlap, overlap); err != nil {
		return fmt.Errorf("save %s: %w", keyChunkOverlap, err)
	}
	return nil
}

// SetDefaultRole configures the role used when none is given.
func (s *SettingsService) SetDefaultRole(role domain.Role) error {
	if !isKnownRole(role) {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if err := s.configStore.Set(keyDefaultRole, role.String()); err != nil {
		return fmt.Errorf("save %s: %w", keyDefaultRole, err)
	}
	return nil
}

// Validate checks that stored values are usable. Missing embedding
// credentials are not an error; the store runs without semantic features.
func (s *SettingsService) Validate() error {
	if v := s.configStore.GetString(keyEmbedProvider); v != "" && !domain.AIProvider(v).IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, v)
	}
	if v := s.configStore.GetString(keyStorageBackend); v != "" && !domain.StorageBackend(v).IsValid() {
		return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, v)
	}
	if v := s.configStore.GetString(keyDefaultRole); v != "" && !isKnownRole(domain.Role(v)) {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, v)
	}

	if _, ok := s.configStore.Get(keyChunkSize); ok {
		size := s.configStore.GetInt(keyChunkSize)
		if size <= 0 {
			return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
		}
		if _, ok := s.configStore.Get(keyChunkOverlap); ok {
			if overlap := s.configStore.GetInt(keyChunkOverlap); overlap < 0 || overlap >= size {
				return fmt.Errorf("%w: overlap must be in [0, %d)", domain.ErrInvalidInput, size)
			}
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	defaults.Storage.Path = s.defaultStorePath()
	return defaults
}

// ValidateEmbeddingConfig pings the configured embedding provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

func (s *SettingsService) defaultStorePath() string {
	return filepath.Join(filepath.Dir(s.configStore.Path()), DefaultStoreDirName)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyEmbedProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getRole(defaultVal domain.Role) domain.Role {
	role := domain.Role(s.configStore.GetString(keyDefaultRole))
	if !isKnownRole(role) {
		return defaultVal
	}
	return role
}

// getAccessPolicy applies access.<role> overrides to the built-in table.
func (s *SettingsService) getAccessPolicy(policy domain.AccessPolicy) domain.AccessPolicy {
	for _, role := range domain.AllRoles() {
		key := keyAccessPrefix + role.String()
		if _, ok := s.configStore.Get(key); !ok {
			continue
		}
		policy = policy.WithRule(role, s.configStore.GetStringSlice(key))
	}
	return policy
}

func isKnownRole(role domain.Role) bool {
	for _, r := range domain.AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
