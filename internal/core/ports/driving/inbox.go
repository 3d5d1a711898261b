package driving

import (
	"context"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

// InboxService mirrors a watched folder into the store.
type InboxService interface {
	// Run ingests files not yet stored, then follows changes until ctx
	// is cancelled. onEvent, if non-nil, is called for every handled change.
	Run(ctx context.Context, onEvent func(domain.InboxEvent)) error

	// Apply handles a single change.
	Apply(ctx context.Context, change domain.FileChange) domain.InboxEvent
}
