package postprocessors

import (
	"fmt"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
	"github.com/Shaun-Gulati/internal-assistant/internal/postprocessors/chunker"
)

// DefaultChunker is the name of the sentence-aware chunker.
const DefaultChunker = "chunker"

// RegisterDefaults registers the built-in chunkers.
func RegisterDefaults(r *Registry) {
	r.Register(DefaultChunker, buildChunker)
}

// NewChunker builds the default chunker for the configured size and overlap.
func NewChunker(settings domain.ChunkingSettings) (driven.Chunker, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.Build(DefaultChunker, map[string]any{
		"chunk_size": settings.ChunkSize,
		"overlap":    settings.Overlap,
	})
}

// buildChunker reads chunk_size and overlap, both in characters.
// Missing keys keep the chunker defaults (1000 and 200). An overlap that
// is not smaller than the chunk size is rejected.
func buildChunker(cfg map[string]any) (driven.Chunker, error) {
	size, hasSize := getIntFromConfig(cfg, "chunk_size")
	overlap, hasOverlap := getIntFromConfig(cfg, "overlap")

	if hasSize && size <= 0 {
		hasSize = false
	}
	if hasOverlap && overlap < 0 {
		return nil, fmt.Errorf("chunk overlap %d is negative: %w", overlap, domain.ErrInvalidInput)
	}
	if hasSize && hasOverlap && overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d: %w",
			overlap, size, domain.ErrInvalidInput)
	}

	var opts []chunker.Option
	if hasSize {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if hasOverlap {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return chunker.New(opts...), nil
}

// getIntFromConfig extracts an int, accepting the int64 and float64
// values TOML and JSON decoding produce.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	switch v := cfg[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
