package driven

// Chunker splits extracted text into overlapping windows for embedding.
// Implementations must be pure: equal input yields equal output.
type Chunker interface {
	// Name returns the chunker name for logging and configuration.
	Name() string

	// Chunk splits text into ordered, trimmed, non-empty chunks.
	Chunk(text string) []string
}
