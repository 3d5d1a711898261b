package driven

import (
	"context"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

// Normaliser extracts plain text from one family of file formats.
type Normaliser interface {
	// SupportedExtensions returns the lowercased extensions handled, without dots.
	SupportedExtensions() []string

	// Normalise extracts text from a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error)
}

// NormaliserRegistry selects the normaliser for a file by extension.
type NormaliserRegistry interface {
	// Normalise extracts text using the normaliser registered for the
	// document's extension. Unknown extensions return domain.ErrUnsupportedFormat.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedExtensions returns all extensions that can be normalised.
	SupportedExtensions() []string
}
