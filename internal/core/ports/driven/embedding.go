package driven

import (
	"context"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, semantic storage and search are disabled.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// IsConnected reports whether the service is configured to make calls.
	// It is a local configuration check and never touches the network.
	IsConnected() bool

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// AIConfigValidator checks an embedding configuration against the live provider.
type AIConfigValidator interface {
	// ValidateEmbedding pings the provider described by config.
	// An unconfigured or nil config is not an error.
	ValidateEmbedding(config *domain.EmbeddingSettings) error
}
