package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
	"github.com/Shaun-Gulati/internal-assistant/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService embeds a query and asks the store for the nearest entries.
type SearchService struct {
	store        driven.DocumentStore
	embedder     driven.EmbeddingService // optional
	defaultLimit int
}

// NewSearchService creates a new search service.
// The embedder may be nil; searches then return no results.
func NewSearchService(store driven.DocumentStore, embedder driven.EmbeddingService, defaultLimit int) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultSearchLimit
	}
	return &SearchService{
		store:        store,
		embedder:     embedder,
		defaultLimit: defaultLimit,
	}
}

// Search returns up to opts.Limit entries visible to role, most similar first.
// A zero limit uses the default; a negative limit returns nothing.
func (s *SearchService) Search(ctx context.Context, query string, role domain.Role, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	limit := opts.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit < 0 {
		return []domain.SearchResult{}, nil
	}

	if !s.IsConnected() {
		logger.Warn("Embedding service unavailable; search returns no results")
		return []domain.SearchResult{}, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Embedding query failed: %v", err)
		return []domain.SearchResult{}, nil
	}

	// Uploaded-only filtering happens after ranking, so rank everything
	// rather than let better-scoring context entries fill the page.
	fetch := limit
	if opts.UploadedOnly {
		fetch = max(limit, s.store.Stats().Documents)
	}

	results, err := s.store.Search(ctx, vector, role, fetch)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}

	if opts.UploadedOnly {
		results = uploadedOnly(results, limit)
	}
	logger.Debug("Search %q as %s: %d results", query, role, len(results))
	return results, nil
}

// SearchUploaded is Search restricted to uploaded documents.
func (s *SearchService) SearchUploaded(ctx context.Context, query string, role domain.Role, limit int) ([]domain.SearchResult, error) {
	return s.Search(ctx, query, role, domain.SearchOptions{Limit: limit, UploadedOnly: true})
}

// IsConnected reports whether an embedding service is configured.
func (s *SearchService) IsConnected() bool {
	return s.embedder != nil && s.embedder.IsConnected()
}

func uploadedOnly(results []domain.SearchResult, limit int) []domain.SearchResult {
	out := make([]domain.SearchResult, 0, min(limit, len(results)))
	for _, r := range results {
		if len(out) == limit {
			break
		}
		if domain.IsUploadedSource(r.Source) {
			out = append(out, r)
		}
	}
	return out
}
