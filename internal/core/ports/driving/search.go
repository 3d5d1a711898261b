package driving

import (
	"context"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

// SearchService answers semantic queries on behalf of a role.
type SearchService interface {
	// Search embeds query and returns the best visible matches.
	// Returns no results, not an error, when embeddings are unavailable.
	Search(ctx context.Context, query string, role domain.Role, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// SearchUploaded is Search restricted to uploaded documents.
	SearchUploaded(ctx context.Context, query string, role domain.Role, limit int) ([]domain.SearchResult, error)

	// IsConnected reports whether an embedding service is configured.
	// This is a configuration check, not a network check.
	IsConnected() bool
}
