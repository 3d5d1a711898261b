package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
	"github.com/Shaun-Gulati/internal-assistant/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// Extra metadata keys written by the ingestion pipeline.
const (
	metaSource    = "source"
	metaUploadID  = "upload_id"
	metaChannel   = "channel"
	metaAuthor    = "author"
	metaTimestamp = "timestamp"
)

// DocumentService runs the ingestion pipeline: extract, chunk, embed and store.
type DocumentService struct {
	store       driven.DocumentStore
	normalisers driven.NormaliserRegistry
	chunker     driven.Chunker
	embedder    driven.EmbeddingService // optional

	// sources serialises ingest and delete per source key, from the
	// duplicate check through the last insert.
	sources sourceLocks

	now   func() time.Time
	newID func() string
}

// NewDocumentService creates a new document service.
// The embedder may be nil; chunks are then counted but not stored.
func NewDocumentService(
	store driven.DocumentStore,
	normalisers driven.NormaliserRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
) *DocumentService {
	return &DocumentService{
		store:       store,
		normalisers: normalisers,
		chunker:     chunker,
		embedder:    embedder,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// ProcessDocument ingests one uploaded file.
func (s *DocumentService) ProcessDocument(ctx context.Context, req domain.IngestRequest) domain.IngestResult {
	filename := filepath.Base(strings.TrimSpace(req.Filename))
	result := domain.IngestResult{
		Filename: filename,
		FileSize: int64(len(req.Content)),
	}
	fail := func(err error) domain.IngestResult {
		result.Success = false
		result.Err = err
		result.Error = err.Error()
		return result
	}

	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return fail(fmt.Errorf("%w: empty filename", domain.ErrInvalidInput))
	}

	ext := domain.FileExtension(filename)
	if !domain.IsSupportedFile(filename) {
		return fail(fmt.Errorf("%w: %q. Supported types: PDF, DOCX, DOC", domain.ErrUnsupportedFormat, ext))
	}

	source := domain.UploadedSource(filename)
	unlock := s.sources.lock(source)
	defer unlock()

	if s.store.HasSource(ctx, source, req.Role) {
		if !req.ReplaceExisting {
			result.Duplicate = true
			return fail(domain.ErrDuplicateFile)
		}
		// Keep the stored copy when nothing could replace it.
		if !s.embedderReady() {
			return fail(fmt.Errorf("replace %s: %w", filename, domain.ErrEmbeddingUnavailable))
		}
		removed, err := s.store.DeleteBySource(ctx, source, req.Role)
		if err != nil {
			return fail(fmt.Errorf("replace %s: %w", filename, err))
		}
		logger.Info("Replaced existing document %s (%d chunks removed)", filename, removed)
		result.Replaced = true
	}

	extracted, err := s.normalisers.Normalise(ctx, &domain.RawDocument{
		Filename: filename,
		URI:      req.Filename,
		Content:  req.Content,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrExtractionFailed) && !errors.Is(err, domain.ErrUnsupportedFormat) {
			err = fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
		}
		return fail(err)
	}
	if strings.TrimSpace(extracted.Text) == "" {
		return fail(domain.ErrEmptyDocument)
	}

	chunks := s.chunker.Chunk(extracted.Text)
	result.TotalChunks = len(chunks)

	uploadedAt := s.now()
	uploadID := s.newID()
	vectors := s.embedAll(ctx, chunks)

	for i, chunk := range chunks {
		entry := domain.DocumentEntry{
			Content: chunk,
			Source:  source,
			Metadata: domain.Metadata{
				Filename:    filename,
				FileType:    ext,
				ChunkIndex:  i,
				TotalChunks: len(chunks),
				Tags:        []string{"document", ext},
				UploadedAt:  uploadedAt,
			},
			OwningRole: roleRef(req.Role),
		}
		entry.Metadata.Set(metaSource, source)
		entry.Metadata.Set(metaUploadID, uploadID)

		if s.insert(ctx, entry, vectors[i]) {
			result.ChunksAdded++
		} else {
			logger.Debug("Failed to add chunk %d of %s", i, filename)
		}
	}

	if result.ChunksAdded < result.TotalChunks {
		logger.Warn("%s: stored %d of %d chunks", filename, result.ChunksAdded, result.TotalChunks)
	} else {
		logger.Info("Ingested %s: %d chunks", filename, result.ChunksAdded)
	}

	result.Success = true
	return result
}

// ProcessBatch ingests files one after another. Duplicates are reported,
// not replaced, unless a request asks for replacement.
func (s *DocumentService) ProcessBatch(ctx context.Context, reqs []domain.IngestRequest) domain.UploadSummary {
	summary := domain.UploadSummary{
		DuplicatesFound: []string{},
		Results:         make([]domain.IngestResult, 0, len(reqs)),
	}

	for _, req := range reqs {
		if ctx.Err() != nil {
			summary.Results = append(summary.Results, domain.IngestResult{
				Filename: req.Filename,
				Error:    ctx.Err().Error(),
				Err:      ctx.Err(),
			})
			continue
		}

		result := s.ProcessDocument(ctx, req)
		if result.Duplicate {
			summary.DuplicatesFound = append(summary.DuplicatesFound, result.Filename)
		}
		if result.Success {
			summary.FilesProcessed++
			summary.ChunksAdded += result.ChunksAdded
		}
		summary.Results = append(summary.Results, result)
	}

	return summary
}

// CheckDuplicate reports whether filename is stored and visible to role.
func (s *DocumentService) CheckDuplicate(ctx context.Context, filename string, role domain.Role) bool {
	return s.store.HasSource(ctx, domain.UploadedSource(filepath.Base(filename)), role)
}

// Delete removes every chunk of filename visible to role.
// Deleting a file that is not stored succeeds with zero chunks removed.
func (s *DocumentService) Delete(ctx context.Context, filename string, role domain.Role) domain.DeleteResult {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return domain.DeleteResult{Error: fmt.Errorf("%w: empty filename", domain.ErrInvalidInput).Error()}
	}

	source := domain.UploadedSource(filename)
	unlock := s.sources.lock(source)
	defer unlock()

	removed, err := s.store.DeleteBySource(ctx, source, role)
	if err != nil {
		return domain.DeleteResult{ChunksRemoved: removed, Error: err.Error()}
	}

	logger.Info("Deleted %s (%d chunks)", filename, removed)
	return domain.DeleteResult{Success: true, ChunksRemoved: removed}
}

// List returns the uploaded documents visible to role.
func (s *DocumentService) List(ctx context.Context, role domain.Role) ([]domain.DocumentSummary, error) {
	return s.store.ListByPrefix(ctx, domain.UploadedSource(""), role)
}

// AddContext embeds and stores a context entry such as a chat message.
func (s *DocumentService) AddContext(ctx context.Context, in domain.ContextEntry) (bool, error) {
	if strings.TrimSpace(in.Content) == "" {
		return false, fmt.Errorf("%w: empty content", domain.ErrInvalidInput)
	}
	if in.Source == "" {
		return false, fmt.Errorf("%w: empty source", domain.ErrInvalidInput)
	}
	if domain.IsUploadedSource(in.Source) {
		return false, fmt.Errorf("%w: source %q is reserved for uploads", domain.ErrInvalidInput, in.Source)
	}

	entry := domain.DocumentEntry{
		Content:    in.Content,
		Source:     in.Source,
		Metadata:   domain.Metadata{Tags: dedupe(in.Tags)},
		OwningRole: roleRef(in.Role),
	}
	if in.Channel != "" {
		entry.Metadata.Set(metaChannel, in.Channel)
	}
	if in.Author != "" {
		entry.Metadata.Set(metaAuthor, in.Author)
	}
	if in.Timestamp != "" {
		entry.Metadata.Set(metaTimestamp, in.Timestamp)
	}

	vectors := s.embedAll(ctx, []string{in.Content})
	if vectors[0] == nil {
		return false, nil
	}
	return s.store.Insert(ctx, entry, vectors[0])
}

// Save flushes the store and reports its size.
func (s *DocumentService) Save(ctx context.Context) (domain.SaveResult, error) {
	if err := s.store.Flush(ctx); err != nil {
		return domain.SaveResult{}, err
	}

	stats := s.store.Stats()
	return domain.SaveResult{
		Location:        s.store.Location(),
		DocumentsCount:  stats.Documents,
		EmbeddingsCount: stats.Embeddings,
	}, nil
}

// embedAll returns one vector per text, nil where embedding failed.
// A batch call is tried first; on failure each text is embedded alone so
// one bad chunk does not sink the rest.
func (s *DocumentService) embedAll(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	if len(texts) == 0 {
		return vectors
	}
	if !s.embedderReady() {
		logger.Warn("Embedding service unavailable; %d chunks not stored", len(texts))
		return vectors
	}

	batch, err := s.embedder.EmbedBatch(ctx, texts)
	if err == nil && len(batch) == len(texts) {
		copy(vectors, batch)
		return vectors
	}
	if err != nil {
		logger.Debug("Batch embedding failed, retrying per chunk: %v", err)
	}

	for i, text := range texts {
		if ctx.Err() != nil {
			break
		}
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			logger.Debug("Embedding chunk %d failed: %v", i, err)
			continue
		}
		vectors[i] = vec
	}
	return vectors
}

func (s *DocumentService) embedderReady() bool {
	return s.embedder != nil && s.embedder.IsConnected()
}

// insert stores one entry. A flush failure keeps the entry in memory and
// still counts as stored; the next successful flush persists it.
func (s *DocumentService) insert(ctx context.Context, entry domain.DocumentEntry, vector []float32) bool {
	if len(vector) == 0 {
		return false
	}
	ok, err := s.store.Insert(ctx, entry, vector)
	if err != nil {
		logger.Error("Storing chunk of %s: %v", entry.Source, err)
	}
	return ok
}

// sourceLocks hands out one mutex per source key. Entries are dropped once
// no caller holds or waits on them. The zero value is ready to use.
type sourceLocks struct {
	mu    sync.Mutex
	locks map[string]*sourceLock
}

type sourceLock struct {
	sync.Mutex
	refs int
}

// lock blocks until key is free and returns the matching unlock.
func (l *sourceLocks) lock(key string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sourceLock)
	}
	sl, ok := l.locks[key]
	if !ok {
		sl = &sourceLock{}
		l.locks[key] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func roleRef(role domain.Role) *string {
	if role == "" {
		return nil
	}
	r := string(role)
	return &r
}

// dedupe keeps the first occurrence of each tag.
func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
