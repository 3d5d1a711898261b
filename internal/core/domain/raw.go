package domain

// RawDocument represents opaque file bytes before text extraction.
type RawDocument struct {
	// Filename is the display name, including extension.
	Filename string

	// URI is the original location (file path, upload name).
	URI string

	// Content is the raw bytes.
	Content []byte
}

// ExtractedText is the plain text a normaliser produced from a RawDocument.
type ExtractedText struct {
	// Title is a human-readable title, falling back to the filename.
	Title string

	// Text is the concatenated page or paragraph text.
	Text string
}

// ChangeType represents the type of file change seen by a watcher.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// String returns the change name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return unknownDescription
	}
}

// FileChange is a change event for a file in a watched folder.
type FileChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Path is the absolute path of the affected file.
	Path string
}

// InboxEvent reports what the inbox watcher did with one file change.
// Exactly one of Ingest and Delete is set.
type InboxEvent struct {
	Change FileChange
	Ingest *IngestResult
	Delete *DeleteResult
}
