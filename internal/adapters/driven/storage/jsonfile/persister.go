package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
)

// File names inside the store directory.
const (
	DocumentsFile  = "documents.json"
	EmbeddingsFile = "embeddings.json"
)

// Verify interface compliance.
var _ driven.Persister = (*Persister)(nil)

// record is the on-disk shape of one entry.
type record struct {
	Content  string          `json:"content"`
	Source   string          `json:"source"`
	Metadata domain.Metadata `json:"metadata"`
	UserRole *string         `json:"user_role"`
}

// Persister reads and writes documents.json and embeddings.json in a directory.
type Persister struct {
	dir    string
	indent bool
}

// Option configures a Persister.
type Option func(*Persister)

// WithIndent pretty-prints both files.
func WithIndent(indent bool) Option {
	return func(p *Persister) {
		p.indent = indent
	}
}

// New creates a persister rooted at dir. The directory is created on first Save.
func New(dir string, opts ...Option) *Persister {
	p := &Persister{dir: dir, indent: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Location returns the store directory.
func (p *Persister) Location() string {
	return p.dir
}

// Load reads both files. A missing file is an empty sequence.
// Undecodable files or differing lengths return domain.ErrCorruptPersistence.
func (p *Persister) Load(_ context.Context) ([]domain.DocumentEntry, [][]float32, error) {
	var records []record
	if err := p.readFile(DocumentsFile, &records); err != nil {
		return nil, nil, err
	}

	var vectors [][]float32
	if err := p.readFile(EmbeddingsFile, &vectors); err != nil {
		return nil, nil, err
	}

	if len(records) != len(vectors) {
		return nil, nil, fmt.Errorf("%w: %d documents but %d embeddings",
			domain.ErrCorruptPersistence, len(records), len(vectors))
	}

	entries := make([]domain.DocumentEntry, len(records))
	for i, r := range records {
		entries[i] = domain.DocumentEntry{
			Content:    r.Content,
			Source:     r.Source,
			Metadata:   r.Metadata,
			OwningRole: r.UserRole,
		}
	}
	return entries, vectors, nil
}

// Save rewrites both files.
func (p *Persister) Save(_ context.Context, entries []domain.DocumentEntry, vectors [][]float32) error {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	records := make([]record, len(entries))
	for i, e := range entries {
		records[i] = record{
			Content:  e.Content,
			Source:   e.Source,
			Metadata: e.Metadata,
			UserRole: e.OwningRole,
		}
	}
	if vectors == nil {
		vectors = [][]float32{}
	}

	// Both files are staged before either is renamed, which narrows the
	// window where they disagree to the gap between the two renames. A
	// crash inside it leaves lengths that Load reports as corrupt.
	docsTmp, err := p.writeTemp(DocumentsFile, records)
	if err != nil {
		return err
	}
	vecsTmp, err := p.writeTemp(EmbeddingsFile, vectors)
	if err != nil {
		os.Remove(docsTmp)
		return err
	}

	if err := p.replace(docsTmp, DocumentsFile); err != nil {
		os.Remove(vecsTmp)
		return err
	}
	return p.replace(vecsTmp, EmbeddingsFile)
}

func (p *Persister) readFile(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(p.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %w", domain.ErrCorruptPersistence, name, err)
	}
	return nil
}

// writeTemp encodes v to a temporary file in the store directory and
// returns its path.
func (p *Persister) writeTemp(name string, v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if p.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(p.dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return tmpName, nil
}

func (p *Persister) replace(tmpName, name string) error {
	if err := os.Rename(tmpName, filepath.Join(p.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
