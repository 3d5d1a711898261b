package driven

import (
	"context"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

// DocumentStore holds paired (entry, vector) records and answers
// role-filtered nearest-neighbour queries over them.
// Implementations must be safe for concurrent use.
type DocumentStore interface {
	// Insert appends an entry with its vector and persists the store.
	// Returns false without mutating when the vector is empty.
	Insert(ctx context.Context, entry domain.DocumentEntry, vector []float32) (bool, error)

	// DeleteBySource removes every entry whose source equals source exactly
	// and is visible to role, then persists. Returns the number removed.
	DeleteBySource(ctx context.Context, source string, role domain.Role) (int, error)

	// HasSource reports whether an entry with exactly this source is visible to role.
	HasSource(ctx context.Context, source string, role domain.Role) bool

	// ListByPrefix summarises visible entries whose source starts with prefix,
	// one summary per filename.
	ListByPrefix(ctx context.Context, prefix string, role domain.Role) ([]domain.DocumentSummary, error)

	// Search ranks stored vectors against query by cosine similarity and
	// returns up to limit results visible to role, best first.
	Search(ctx context.Context, query []float32, role domain.Role, limit int) ([]domain.SearchResult, error)

	// Load replaces the in-memory contents with the persisted store.
	Load(ctx context.Context) error

	// Flush writes the whole store to disk.
	Flush(ctx context.Context) error

	// Stats returns the number of held entries and vectors.
	Stats() domain.StoreStats

	// Location describes where the store is persisted.
	Location() string
}

// Persister reads and writes the whole store as two index-aligned sequences.
type Persister interface {
	// Load returns the persisted entries and vectors.
	// A missing store yields empty slices and no error. A store whose
	// sequences differ in length returns domain.ErrCorruptPersistence.
	Load(ctx context.Context) ([]domain.DocumentEntry, [][]float32, error)

	// Save replaces the persisted store with entries and vectors.
	Save(ctx context.Context, entries []domain.DocumentEntry, vectors [][]float32) error

	// Location describes where the store is persisted.
	Location() string
}
