package driven

import (
	"context"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

// FolderWatcher reports changes to ingestible files under a directory.
type FolderWatcher interface {
	// Root returns the watched directory.
	Root() string

	// Scan lists the ingestible files currently present, as ChangeCreated events.
	Scan(ctx context.Context) ([]domain.FileChange, error)

	// Watch streams changes until ctx is cancelled or the watcher is closed.
	// The channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan domain.FileChange, error)

	// Close stops any active watch. It is safe to call more than once.
	Close() error
}
