package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or not reachable. Inserts and searches degrade to no-ops without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Ingestion Errors.

	// ErrDuplicateFile indicates a visible document with the same source key exists.
	// Callers recover by re-submitting with replace enabled.
	ErrDuplicateFile = errors.New("file already exists")

	// ErrExtractionFailed indicates format-specific text extraction failed.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmptyDocument indicates extraction produced no usable text.
	ErrEmptyDocument = errors.New("no text content found in document")

	// ErrUnsupportedFormat indicates the file extension cannot be ingested.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Persistence Errors.

	// ErrCorruptPersistence indicates an on-disk artifact is unreadable or
	// its entries and vectors have different lengths.
	ErrCorruptPersistence = errors.New("corrupt persisted store")
)
