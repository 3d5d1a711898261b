package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// UploadedSourcePrefix prefixes the source key of every uploaded document.
// The full key is UploadedSourcePrefix + "_" + filename.
const UploadedSourcePrefix = "uploaded_document"

// UploadedSource returns the exact source key for an uploaded filename.
func UploadedSource(filename string) string {
	return UploadedSourcePrefix + "_" + filename
}

// IsUploadedSource reports whether a source key belongs to an uploaded document.
func IsUploadedSource(source string) bool {
	return strings.HasPrefix(source, UploadedSourcePrefix+"_")
}

// DocumentEntry is one stored unit of text.
// Each entry is paired with exactly one embedding vector in the store.
type DocumentEntry struct {
	// Content is the chunk's raw text.
	Content string

	// Source is the logical origin tag. Uploads use UploadedSource(filename);
	// other origins use a category such as "slack-general" or "github".
	Source string

	// Metadata carries chunk and origin details.
	Metadata Metadata

	// OwningRole is the role recorded at ingestion time. It is informational;
	// visibility is decided by Source.
	OwningRole *string
}

// Metadata keys with dedicated fields.
const (
	MetaFilename    = "filename"
	MetaFileType    = "file_type"
	MetaChunkIndex  = "chunk_index"
	MetaTotalChunks = "total_chunks"
	MetaTags        = "tags"
	MetaUploadedAt  = "uploaded_at"
)

// Metadata is the typed metadata of a DocumentEntry.
// Origin-specific fields (channel, author, timestamp) live in Extra.
type Metadata struct {
	Filename    string
	FileType    string
	ChunkIndex  int
	TotalChunks int
	Tags        []string
	UploadedAt  time.Time

	// Extra holds every key without a dedicated field.
	Extra map[string]any
}

// HasTag reports whether the metadata carries the given tag.
func (m Metadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Get returns an extension value by key.
func (m Metadata) Get(key string) (any, bool) {
	if m.Extra == nil {
		return nil, false
	}
	v, ok := m.Extra[key]
	return v, ok
}

// Set stores an extension value, allocating Extra on first use.
func (m *Metadata) Set(key string, value any) {
	if m.Extra == nil {
		m.Extra = make(map[string]any)
	}
	m.Extra[key] = value
}

// uploadedAtLayouts are accepted when reading uploaded_at back.
// The zone-less layouts match stores written by older tooling.
var uploadedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// MarshalJSON writes metadata as one flat object.
// Dedicated fields win over Extra keys of the same name.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+6)
	for k, v := range m.Extra {
		out[k] = v
	}

	if m.Filename != "" {
		out[MetaFilename] = m.Filename
	}
	if m.FileType != "" {
		out[MetaFileType] = m.FileType
	}
	if m.TotalChunks > 0 {
		out[MetaChunkIndex] = m.ChunkIndex
		out[MetaTotalChunks] = m.TotalChunks
	}
	if len(m.Tags) > 0 {
		out[MetaTags] = m.Tags
	}
	if !m.UploadedAt.IsZero() {
		out[MetaUploadedAt] = m.UploadedAt.Format(time.RFC3339Nano)
	}

	return json.Marshal(out)
}

// UnmarshalJSON reads a flat metadata object.
// Values of the wrong type for a dedicated field are kept in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}

	*m = Metadata{}
	for k, v := range raw {
		if !m.setKnown(k, v) {
			m.Set(k, v)
		}
	}
	return nil
}

func (m *Metadata) setKnown(key string, value any) bool {
	switch key {
	case MetaFilename:
		s, ok := value.(string)
		m.Filename = s
		return ok
	case MetaFileType:
		s, ok := value.(string)
		m.FileType = s
		return ok
	case MetaChunkIndex:
		n, ok := value.(float64)
		m.ChunkIndex = int(n)
		return ok
	case MetaTotalChunks:
		n, ok := value.(float64)
		m.TotalChunks = int(n)
		return ok
	case MetaTags:
		items, ok := value.([]any)
		if !ok {
			return false
		}
		tags := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return false
			}
			tags = append(tags, s)
		}
		m.Tags = tags
		return true
	case MetaUploadedAt:
		s, ok := value.(string)
		if !ok {
			return false
		}
		for _, layout := range uploadedAtLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				m.UploadedAt = ts
				return true
			}
		}
		return false
	default:
		return false
	}
}
