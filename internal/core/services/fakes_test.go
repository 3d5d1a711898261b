package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driven/storage/jsonfile"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driven/storage/memory"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
)

// keywords give each test text a direction in a tiny embedding space.
var keywords = []string{"vacation", "pricing", "security"}

// keywordEmbedder embeds text as a 0/1 vector over keywords.
type keywordEmbedder struct {
	mu           sync.Mutex
	failOn       string
	disconnected bool
	delay        time.Duration
	embedCalls   int
	batchCalls   int
}

func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(keywords))
	for i, k := range keywords {
		if strings.Contains(lower, k) {
			v[i] = 1
		}
	}
	return v
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.embedCalls++
	e.mu.Unlock()
	time.Sleep(e.delay)
	if e.failOn != "" && strings.Contains(strings.ToLower(text), e.failOn) {
		return nil, errors.New("embedding rejected")
	}
	return keywordVector(text), nil
}

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.batchCalls++
	e.mu.Unlock()
	time.Sleep(e.delay)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if e.failOn != "" && strings.Contains(strings.ToLower(text), e.failOn) {
			return nil, errors.New("batch rejected")
		}
		out[i] = keywordVector(text)
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int              { return len(keywords) }
func (e *keywordEmbedder) ModelName() string            { return "keyword" }
func (e *keywordEmbedder) IsConnected() bool            { return !e.disconnected }
func (e *keywordEmbedder) Ping(_ context.Context) error { return nil }
func (e *keywordEmbedder) Close() error                 { return nil }

// stubNormalisers returns fixed text for every supported file.
type stubNormalisers struct {
	text  string
	err   error
	calls int
}

func (n *stubNormalisers) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error) {
	n.calls++
	if n.err != nil {
		return nil, n.err
	}
	return &domain.ExtractedText{Title: raw.Filename, Text: n.text}, nil
}

func (n *stubNormalisers) Register(driven.Normaliser) {}

func (n *stubNormalisers) SupportedExtensions() []string { return domain.SupportedExtensions }

// paragraphChunker splits on blank lines so tests control chunk boundaries.
type paragraphChunker struct{}

func (paragraphChunker) Name() string { return "paragraph" }

func (paragraphChunker) Chunk(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const policyText = "Vacation days accrue monthly.\n\n" +
	"Pricing is reviewed every quarter.\n\n" +
	"Security badges must be worn at all times."

type fixture struct {
	dir         string
	store       *memory.VectorStore
	embedder    *keywordEmbedder
	normalisers *stubNormalisers
	docs        *DocumentService
	search      *SearchService
}

func newFixture(t *testing.T, opts ...memory.Option) *fixture {
	t.Helper()

	dir := t.TempDir()
	store := memory.NewVectorStore(jsonfile.New(dir), opts...)
	require.NoError(t, store.Load(context.Background()))

	f := &fixture{
		dir:         dir,
		store:       store,
		embedder:    &keywordEmbedder{},
		normalisers: &stubNormalisers{text: policyText},
	}
	f.docs = NewDocumentService(store, f.normalisers, paragraphChunker{}, f.embedder)
	f.search = NewSearchService(store, f.embedder, 0)
	return f
}

func (f *fixture) upload(t *testing.T, filename string, role domain.Role, replace bool) domain.IngestResult {
	t.Helper()
	return f.docs.ProcessDocument(context.Background(), domain.IngestRequest{
		Content:         []byte("raw bytes of " + filename),
		Filename:        filename,
		Role:            role,
		ReplaceExisting: replace,
	})
}
