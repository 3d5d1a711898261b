package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "empty string is invalid", provider: AIProvider(""), expected: false},
		{name: "anthropic is not an embedding provider", provider: AIProvider("anthropic"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Properties(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.Equal(t, "OpenAI (cloud)", AIProviderOpenAI.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

// TestEmbeddingSettings_IsConfigured covers the placeholder key rule
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{
			name:     "openai with key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"},
			expected: true,
		},
		{
			name:     "openai without key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI},
			expected: false,
		},
		{
			name:     "openai with placeholder key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: PlaceholderAPIKey},
			expected: false,
		},
		{
			name:     "ollama needs no key",
			settings: EmbeddingSettings{Provider: AIProviderOllama},
			expected: true,
		},
		{
			name:     "unset provider",
			settings: EmbeddingSettings{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageBackendJSON.IsValid())
	assert.True(t, StorageBackendSQLite.IsValid())
	assert.False(t, StorageBackend("bolt").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderOpenAI, s.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", s.Embedding.Model)
	assert.False(t, s.Embedding.IsConfigured())
	assert.Equal(t, StorageBackendJSON, s.Storage.Backend)
	assert.Equal(t, 1000, s.Chunking.ChunkSize)
	assert.Equal(t, 200, s.Chunking.Overlap)
	assert.Equal(t, DefaultSearchLimit, s.Search.DefaultLimit)
	assert.Equal(t, RoleUser, s.DefaultRole)
	require.NotEmpty(t, s.Access.Allowed(RoleDeveloper))
}

func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	for provider, model := range DefaultEmbeddingModels() {
		_, ok := dims[model]
		assert.True(t, ok, "default model for %s has known dimensions", provider)
	}
}
