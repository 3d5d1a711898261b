package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
	"github.com/Shaun-Gulati/internal-assistant/internal/logger"
)

// Ensure VectorStore implements the interface.
var _ driven.DocumentStore = (*VectorStore)(nil)

const unknownFilename = "Unknown"

// VectorStore is the in-memory table of paired entries and vectors.
//
// All mutation, every flush, and each search's snapshot read are guarded by
// one RWMutex, so entries and vectors are never observed at different
// lengths. A nil persister keeps the store in memory only.
type VectorStore struct {
	mu         sync.RWMutex
	entries    []domain.DocumentEntry
	vectors    [][]float32
	magnitudes []float32

	persister driven.Persister
	policy    domain.AccessPolicy
}

// Option configures a VectorStore.
type Option func(*VectorStore)

// WithAccessPolicy sets the policy used to filter results by role.
func WithAccessPolicy(policy domain.AccessPolicy) Option {
	return func(s *VectorStore) {
		s.policy = policy
	}
}

// NewVectorStore creates an empty store backed by persister.
// Call Load to read previously persisted contents.
func NewVectorStore(persister driven.Persister, opts ...Option) *VectorStore {
	s := &VectorStore{
		persister: persister,
		policy:    domain.DefaultAccessPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert appends an entry with its vector and persists the store.
// The entry stays in memory even when the flush fails; the flush error is returned.
func (s *VectorStore) Insert(ctx context.Context, entry domain.DocumentEntry, vector []float32) (bool, error) {
	if len(vector) == 0 {
		return false, nil
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.vectors) > 0 && len(s.vectors[0]) != len(stored) {
		logger.Debug("inserting %d-dim vector into store of %d-dim vectors", len(stored), len(s.vectors[0]))
	}

	s.entries = append(s.entries, entry)
	s.vectors = append(s.vectors, stored)
	s.magnitudes = append(s.magnitudes, magnitude(stored))

	logger.Info("Added document: %s (total docs: %d)", entry.Source, len(s.entries))

	if err := s.flushLocked(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// DeleteBySource removes every entry whose source equals source exactly and
// is visible to role. Positions are removed from the highest down so the
// remaining indices stay valid while removing.
func (s *VectorStore) DeleteBySource(ctx context.Context, source string, role domain.Role) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []int
	for i, entry := range s.entries {
		if entry.Source == source && s.policy.Visible(entry, role) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return 0, nil
	}

	for i := len(matches) - 1; i >= 0; i-- {
		idx := matches[i]
		s.entries = slices.Delete(s.entries, idx, idx+1)
		s.vectors = slices.Delete(s.vectors, idx, idx+1)
		s.magnitudes = slices.Delete(s.magnitudes, idx, idx+1)
	}

	logger.Info("Deleted %d chunks for source %s", len(matches), source)

	if err := s.flushLocked(ctx); err != nil {
		return len(matches), err
	}
	return len(matches), nil
}

// HasSource reports whether an entry with exactly this source is visible to role.
func (s *VectorStore) HasSource(_ context.Context, source string, role domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries {
		if entry.Source == source && s.policy.Visible(entry, role) {
			return true
		}
	}
	return false
}

// ListByPrefix summarises visible entries whose source starts with prefix.
// A multi-chunk document appears once, in order of its first chunk.
func (s *VectorStore) ListByPrefix(_ context.Context, prefix string, role domain.Role) ([]domain.DocumentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var summaries []domain.DocumentSummary

	for _, entry := range s.entries {
		if !strings.HasPrefix(entry.Source, prefix) || !s.policy.Visible(entry, role) {
			continue
		}

		filename := entry.Metadata.Filename
		if filename == "" {
			filename = unknownFilename
		}
		if seen[filename] {
			continue
		}
		seen[filename] = true

		chunks := entry.Metadata.TotalChunks
		if chunks <= 0 {
			chunks = 1
		}
		summaries = append(summaries, domain.DocumentSummary{
			Filename:   filename,
			FileType:   entry.Metadata.FileType,
			ChunkCount: chunks,
			UploadedAt: entry.Metadata.UploadedAt,
			Source:     entry.Source,
		})
	}

	return summaries, nil
}

// Search ranks the stored vectors against query and returns up to limit
// results visible to role, best first. Vectors whose dimension differs
// from the query are skipped.
func (s *VectorStore) Search(_ context.Context, query []float32, role domain.Role, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 || len(query) == 0 {
		return nil, nil
	}

	entries, vectors, magnitudes := s.snapshot()
	ranked := rank(query, vectors, magnitudes)

	results := make([]domain.SearchResult, 0, min(limit, len(ranked)))
	for _, r := range ranked {
		entry := entries[r.index]
		if !s.policy.Visible(entry, role) {
			continue
		}
		results = append(results, domain.SearchResult{
			Content:  entry.Content,
			Source:   entry.Source,
			Metadata: entry.Metadata,
			Score:    r.score,
		})
		if len(results) >= limit {
			break
		}
	}

	logger.Debug("search: %d candidates, %d results for role %s", len(ranked), len(results), role)
	return results, nil
}

// snapshot copies the paired sequences under the read lock. Vectors are
// never modified in place, so sharing their backing arrays is safe.
func (s *VectorStore) snapshot() ([]domain.DocumentEntry, [][]float32, []float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries), slices.Clone(s.vectors), slices.Clone(s.magnitudes)
}

// Load replaces the in-memory contents with the persisted store.
// A corrupt store leaves the memory empty and logs a warning instead of failing.
func (s *VectorStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	if s.persister == nil {
		return nil
	}

	entries, vectors, err := s.persister.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptPersistence) {
			logger.Warn("Starting with an empty store: %v", err)
			return nil
		}
		return fmt.Errorf("load store: %w", err)
	}
	if len(entries) != len(vectors) {
		logger.Warn("Starting with an empty store: %d documents but %d embeddings", len(entries), len(vectors))
		return nil
	}

	s.entries = entries
	s.vectors = vectors
	s.magnitudes = make([]float32, len(vectors))
	for i, v := range vectors {
		s.magnitudes[i] = magnitude(v)
	}

	logger.Info("Loaded %d documents from %s", len(entries), s.persister.Location())
	return nil
}

// Flush writes the whole store to disk.
func (s *VectorStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

// flushLocked persists the store. Callers must hold the write lock.
func (s *VectorStore) flushLocked(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, s.entries, s.vectors); err != nil {
		logger.Error("Save documents error: %v", err)
		return fmt.Errorf("flush store: %w", err)
	}
	logger.Debug("saved %d documents to %s", len(s.entries), s.persister.Location())
	return nil
}

// Stats returns the number of held entries and vectors.
func (s *VectorStore) Stats() domain.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.StoreStats{Documents: len(s.entries), Embeddings: len(s.vectors)}
}

// Location describes where the store is persisted.
func (s *VectorStore) Location() string {
	if s.persister == nil {
		return "memory"
	}
	return s.persister.Location()
}

func (s *VectorStore) reset() {
	s.entries = nil
	s.vectors = nil
	s.magnitudes = nil
}
