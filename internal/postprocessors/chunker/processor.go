// Package chunker provides a sentence-aware sliding window text chunker.
package chunker

import (
	"strings"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// sentenceLookback is how far back from a window end a sentence
// terminator is searched for.
const sentenceLookback = 100

// Verify interface compliance.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits text into overlapping windows, preferring to cut
// just after a sentence terminator near the end of each window.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk splits text into chunks. Text no longer than the chunk size is
// returned unchanged as a single chunk. Lengths count runes, not bytes.
func (p *Processor) Chunk(text string) []string {
	runes := []rune(text)
	if len(runes) <= p.chunkSize {
		return []string{text}
	}

	textLen := len(runes)
	chunks := make([]string, 0, textLen/(p.chunkSize-p.overlap)+1)

	start := 0
	for start < textLen {
		end := start + p.chunkSize
		if end < textLen {
			end = p.sentenceEnd(runes, start, end)
		}

		if chunk := strings.TrimSpace(string(runes[start:min(end, textLen)])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - p.overlap
		if next >= textLen {
			break
		}
		// A cut close to start could stall the window
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// sentenceEnd returns the cut position for the window [start, end).
// It scans back from end for '.', '!' or '?' and cuts just after it.
func (p *Processor) sentenceEnd(runes []rune, start, end int) int {
	floor := start + p.chunkSize - sentenceLookback
	if floor < start {
		floor = start
	}

	for i := end; i > floor; i-- {
		switch runes[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	return end
}
