package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// SupportedExtensions lists the file types that can be ingested.
var SupportedExtensions = []string{"pdf", "docx", "doc"}

// FileExtension returns the lowercased extension of filename without the dot.
func FileExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// IsSupportedFile reports whether filename has an ingestible extension.
func IsSupportedFile(filename string) bool {
	ext := FileExtension(filename)
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// IngestRequest is one file submitted for ingestion.
type IngestRequest struct {
	// Content is the raw file bytes.
	Content []byte

	// Filename is the display name; it forms the source key.
	Filename string

	// Role is the role the upload is performed as.
	Role Role

	// ReplaceExisting removes a visible document with the same
	// source key before ingesting.
	ReplaceExisting bool
}

// IngestResult reports the outcome of ingesting one file.
// ChunksAdded below TotalChunks is a valid partial outcome.
type IngestResult struct {
	Success     bool   `json:"success" yaml:"success"`
	Filename    string `json:"filename" yaml:"filename"`
	ChunksAdded int    `json:"chunks_added" yaml:"chunks_added"`
	TotalChunks int    `json:"total_chunks" yaml:"total_chunks"`
	FileSize    int64  `json:"file_size" yaml:"file_size"`
	Replaced    bool   `json:"replaced,omitempty" yaml:"replaced,omitempty"`
	Duplicate   bool   `json:"duplicate,omitempty" yaml:"duplicate,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`

	// Err is the underlying error for errors.Is checks.
	Err error `json:"-" yaml:"-"`
}

// UploadSummary aggregates a multi-file upload.
type UploadSummary struct {
	FilesProcessed  int            `json:"total_files_processed" yaml:"total_files_processed"`
	ChunksAdded     int            `json:"total_chunks_added" yaml:"total_chunks_added"`
	DuplicatesFound []string       `json:"duplicates_found" yaml:"duplicates_found"`
	Results         []IngestResult `json:"results" yaml:"results"`
}

// DeleteResult reports the outcome of deleting an uploaded document.
type DeleteResult struct {
	Success       bool   `json:"success" yaml:"success"`
	ChunksRemoved int    `json:"chunks_removed" yaml:"chunks_removed"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

// DocumentSummary describes one uploaded document, however many chunks it has.
type DocumentSummary struct {
	Filename   string    `json:"filename" yaml:"filename"`
	FileType   string    `json:"file_type" yaml:"file_type"`
	ChunkCount int       `json:"chunk_count" yaml:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
	Source     string    `json:"source" yaml:"source"`
}

// SaveResult reports a manual flush of the store.
type SaveResult struct {
	Location        string `json:"location" yaml:"location"`
	DocumentsCount  int    `json:"documents_count" yaml:"documents_count"`
	EmbeddingsCount int    `json:"embeddings_count" yaml:"embeddings_count"`
}

// ContextEntry is a piece of context from a non-upload origin,
// such as a chat message or an email.
type ContextEntry struct {
	Content string
	Source  string
	Channel string
	Author  string

	// Timestamp is the origin's own timestamp string, stored verbatim.
	Timestamp string

	Tags []string
	Role Role
}

// StoreStats counts the paired sequences held by a store.
type StoreStats struct {
	Documents  int
	Embeddings int
}
