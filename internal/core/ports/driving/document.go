package driving

import (
	"context"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

// DocumentService ingests and manages stored documents on behalf of a role.
type DocumentService interface {
	// ProcessDocument ingests one file. Failures are reported in the result.
	ProcessDocument(ctx context.Context, req domain.IngestRequest) domain.IngestResult

	// ProcessBatch ingests several files and aggregates the outcome.
	ProcessBatch(ctx context.Context, reqs []domain.IngestRequest) domain.UploadSummary

	// CheckDuplicate reports whether filename is already stored and visible to role.
	CheckDuplicate(ctx context.Context, filename string, role domain.Role) bool

	// Delete removes every chunk of an uploaded file visible to role.
	Delete(ctx context.Context, filename string, role domain.Role) domain.DeleteResult

	// List returns the uploaded documents visible to role.
	List(ctx context.Context, role domain.Role) ([]domain.DocumentSummary, error)

	// AddContext stores a context entry from a non-upload origin.
	// Returns false when no embedding could be produced.
	AddContext(ctx context.Context, entry domain.ContextEntry) (bool, error)

	// Save flushes the store to disk and reports what was written.
	Save(ctx context.Context) (domain.SaveResult, error)
}
