package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driven/storage/jsonfile"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driven/storage/memory"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

func TestProcessDocument_Success(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	f.docs.now = func() time.Time { return fixed }
	f.docs.newID = func() string { return "upload-1" }

	result := f.upload(t, "policy.docx", domain.RoleAdmin, false)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "policy.docx", result.Filename)
	assert.Equal(t, 3, result.ChunksAdded)
	assert.Equal(t, 3, result.TotalChunks)
	assert.Equal(t, int64(len("raw bytes of policy.docx")), result.FileSize)
	assert.False(t, result.Replaced)
	assert.Equal(t, 3, f.store.Stats().Documents)
	assert.Equal(t, 1, f.embedder.batchCalls)
	assert.Zero(t, f.embedder.embedCalls)

	docs, err := f.docs.List(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "policy.docx", docs[0].Filename)
	assert.Equal(t, "docx", docs[0].FileType)
	assert.Equal(t, 3, docs[0].ChunkCount)
	assert.True(t, fixed.Equal(docs[0].UploadedAt))
	assert.Equal(t, "uploaded_document_policy.docx", docs[0].Source)
}

func TestProcessDocument_ChunkMetadata(t *testing.T) {
	f := newFixture(t)
	f.docs.newID = func() string { return "upload-1" }

	require.True(t, f.upload(t, "policy.docx", domain.RoleDeveloper, false).Success)

	results, err := f.search.Search(context.Background(), "security", domain.RoleAdmin, domain.SearchOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)

	meta := results[0].Metadata
	assert.Equal(t, "policy.docx", meta.Filename)
	assert.Equal(t, "docx", meta.FileType)
	assert.Equal(t, 2, meta.ChunkIndex)
	assert.Equal(t, 3, meta.TotalChunks)
	assert.Equal(t, []string{"document", "docx"}, meta.Tags)

	source, _ := meta.Get("source")
	assert.Equal(t, "uploaded_document_policy.docx", source)
	id, _ := meta.Get("upload_id")
	assert.Equal(t, "upload-1", id)
}

func TestProcessDocument_UnsupportedBeforeDuplicate(t *testing.T) {
	f := newFixture(t)

	result := f.upload(t, "notes.txt", domain.RoleAdmin, false)

	assert.False(t, result.Success)
	assert.False(t, result.Duplicate)
	assert.ErrorIs(t, result.Err, domain.ErrUnsupportedFormat)
	assert.Contains(t, result.Error, "Supported types")
	assert.Zero(t, f.normalisers.calls)
}

func TestProcessDocument_DuplicateRejected(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.upload(t, "policy.docx", domain.RoleAdmin, false).Success)

	result := f.upload(t, "policy.docx", domain.RoleAdmin, false)

	assert.False(t, result.Success)
	assert.True(t, result.Duplicate)
	assert.ErrorIs(t, result.Err, domain.ErrDuplicateFile)
	assert.Equal(t, 3, f.store.Stats().Documents)
	assert.Equal(t, 1, f.normalisers.calls)
}

func TestProcessDocument_Replace(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.upload(t, "policy.docx", domain.RoleAdmin, false).Success)

	f.normalisers.text = "Vacation policy v2.\n\nSecurity policy v2."
	result := f.upload(t, "policy.docx", domain.RoleAdmin, true)

	require.True(t, result.Success, result.Error)
	assert.True(t, result.Replaced)
	assert.Equal(t, 2, result.ChunksAdded)
	assert.Equal(t, 2, f.store.Stats().Documents)
}

func TestProcessDocument_ConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)
	f.embedder.delay = 20 * time.Millisecond

	const uploads = 4
	results := make([]domain.IngestResult, uploads)
	var wg sync.WaitGroup
	for i := range uploads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.upload(t, "report.pdf", domain.RoleAdmin, false)
		}()
	}
	wg.Wait()

	var succeeded, duplicates int
	for _, r := range results {
		if r.Success {
			succeeded++
		}
		if errors.Is(r.Err, domain.ErrDuplicateFile) {
			duplicates++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, uploads-1, duplicates)
	assert.Equal(t, 3, f.store.Stats().Documents)
}

func TestProcessDocument_ConcurrentReplaces(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.upload(t, "report.pdf", domain.RoleAdmin, false).Success)
	f.embedder.delay = 20 * time.Millisecond

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, f.upload(t, "report.pdf", domain.RoleAdmin, true).Success)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, f.store.Stats().Documents)
}

func TestProcessDocument_ReplaceKeepsDocumentWhenEmbedderDown(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.upload(t, "policy.docx", domain.RoleAdmin, false).Success)
	f.embedder.disconnected = true

	result := f.upload(t, "policy.docx", domain.RoleAdmin, true)

	assert.False(t, result.Success)
	assert.False(t, result.Replaced)
	assert.ErrorIs(t, result.Err, domain.ErrEmbeddingUnavailable)
	assert.Equal(t, 3, f.store.Stats().Documents)
	assert.True(t, f.docs.CheckDuplicate(context.Background(), "policy.docx", domain.RoleAdmin))
}

func TestSourceLocks_ReleasesKeys(t *testing.T) {
	var locks sourceLocks

	unlockA := locks.lock("a")
	unlockB := locks.lock("b")
	assert.Len(t, locks.locks, 2)

	unlockA()
	unlockB()
	assert.Empty(t, locks.locks)
}

func TestProcessDocument_ReplaceWithoutExistingIsPlainUpload(t *testing.T) {
	f := newFixture(t)

	result := f.upload(t, "policy.docx", domain.RoleAdmin, true)

	require.True(t, result.Success)
	assert.False(t, result.Replaced)
}

func TestProcessDocument_BaseName(t *testing.T) {
	f := newFixture(t)

	result := f.upload(t, "/tmp/uploads/policy.pdf", domain.RoleAdmin, false)

	require.True(t, result.Success)
	assert.Equal(t, "policy.pdf", result.Filename)
	assert.True(t, f.docs.CheckDuplicate(context.Background(), "policy.pdf", domain.RoleAdmin))
}

func TestProcessDocument_EmptyFilename(t *testing.T) {
	f := newFixture(t)

	result := f.upload(t, "  ", domain.RoleAdmin, false)

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, domain.ErrInvalidInput)
}

func TestProcessDocument_ExtractionFailure(t *testing.T) {
	f := newFixture(t)
	f.normalisers.err = errors.New("zip: not a valid zip file")

	result := f.upload(t, "broken.docx", domain.RoleAdmin, false)

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, domain.ErrExtractionFailed)
	assert.Zero(t, f.store.Stats().Documents)
}

func TestProcessDocument_EmptyDocument(t *testing.T) {
	f := newFixture(t)
	f.normalisers.text = " \n\t "

	result := f.upload(t, "blank.pdf", domain.RoleAdmin, false)

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, domain.ErrEmptyDocument)
}

func TestProcessDocument_PartialEmbeddingFailure(t *testing.T) {
	f := newFixture(t)
	f.embedder.failOn = "pricing"

	result := f.upload(t, "policy.docx", domain.RoleAdmin, false)

	require.True(t, result.Success)
	assert.Equal(t, 2, result.ChunksAdded)
	assert.Equal(t, 3, result.TotalChunks)
	assert.Equal(t, 3, f.embedder.embedCalls)
	assert.Equal(t, 2, f.store.Stats().Documents)
}

func TestProcessDocument_NoEmbedder(t *testing.T) {
	f := newFixture(t)
	docs := NewDocumentService(f.store, f.normalisers, paragraphChunker{}, nil)

	result := docs.ProcessDocument(context.Background(), domain.IngestRequest{
		Content:  []byte("x"),
		Filename: "policy.docx",
		Role:     domain.RoleAdmin,
	})

	assert.True(t, result.Success)
	assert.Zero(t, result.ChunksAdded)
	assert.Equal(t, 3, result.TotalChunks)
	assert.Zero(t, f.store.Stats().Documents)
}

func TestProcessDocument_DisconnectedEmbedder(t *testing.T) {
	f := newFixture(t)
	f.embedder.disconnected = true

	result := f.upload(t, "policy.docx", domain.RoleAdmin, false)

	assert.True(t, result.Success)
	assert.Zero(t, result.ChunksAdded)
	assert.Zero(t, f.embedder.batchCalls)
}

func TestProcessBatch(t *testing.T) {
	f := newFixture(t)
	reqs := []domain.IngestRequest{
		{Content: []byte("a"), Filename: "a.docx", Role: domain.RoleAdmin},
		{Content: []byte("b"), Filename: "b.txt", Role: domain.RoleAdmin},
		{Content: []byte("a"), Filename: "a.docx", Role: domain.RoleAdmin},
	}

	summary := f.docs.ProcessBatch(context.Background(), reqs)

	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 3, summary.ChunksAdded)
	assert.Equal(t, []string{"a.docx"}, summary.DuplicatesFound)
	require.Len(t, summary.Results, 3)
	assert.True(t, summary.Results[0].Success)
	assert.ErrorIs(t, summary.Results[1].Err, domain.ErrUnsupportedFormat)
	assert.True(t, summary.Results[2].Duplicate)
}

func TestProcessBatch_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := f.docs.ProcessBatch(ctx, []domain.IngestRequest{{Filename: "a.docx"}})

	assert.Zero(t, summary.FilesProcessed)
	require.Len(t, summary.Results, 1)
	assert.ErrorIs(t, summary.Results[0].Err, context.Canceled)
	assert.NotNil(t, summary.DuplicatesFound)
}

func TestCheckDuplicate_RespectsRole(t *testing.T) {
	policy := domain.DefaultAccessPolicy().WithRule(domain.RoleSales, []string{"slack-sales"})
	f := newFixture(t, memory.WithAccessPolicy(policy))
	require.True(t, f.upload(t, "policy.docx", domain.RoleAdmin, false).Success)

	ctx := context.Background()
	assert.True(t, f.docs.CheckDuplicate(ctx, "policy.docx", domain.RoleAdmin))
	assert.True(t, f.docs.CheckDuplicate(ctx, "policy.docx", domain.RoleUser))
	assert.False(t, f.docs.CheckDuplicate(ctx, "policy.docx", domain.RoleSales))
	assert.False(t, f.docs.CheckDuplicate(ctx, "other.docx", domain.RoleAdmin))
}

func TestDelete_ExactSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.True(t, f.upload(t, "policy.docx", domain.RoleAdmin, false).Success)

	backup := domain.DocumentEntry{Content: "backup", Source: domain.UploadedSource("policy.docx.bak")}
	_, err := f.store.Insert(ctx, backup, []float32{1, 0, 0})
	require.NoError(t, err)

	result := f.docs.Delete(ctx, "policy.docx", domain.RoleAdmin)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.ChunksRemoved)
	assert.Equal(t, 1, f.store.Stats().Documents)
	assert.True(t, f.docs.CheckDuplicate(ctx, "policy.docx.bak", domain.RoleAdmin))
}

func TestDelete_Missing(t *testing.T) {
	f := newFixture(t)

	result := f.docs.Delete(context.Background(), "missing.pdf", domain.RoleAdmin)

	assert.True(t, result.Success)
	assert.Zero(t, result.ChunksRemoved)
}

func TestDelete_EmptyFilename(t *testing.T) {
	f := newFixture(t)

	result := f.docs.Delete(context.Background(), "", domain.RoleAdmin)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestList_ExcludesContextEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.True(t, f.upload(t, "policy.docx", domain.RoleAdmin, false).Success)
	ok, err := f.docs.AddContext(ctx, domain.ContextEntry{Content: "vacation chat", Source: "slack-general"})
	require.NoError(t, err)
	require.True(t, ok)

	docs, err := f.docs.List(ctx, domain.RoleUser)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "policy.docx", docs[0].Filename)
}

func TestAddContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.docs.AddContext(ctx, domain.ContextEntry{
		Content:   "Pricing call moved to Friday",
		Source:    "slack-sales",
		Channel:   "#deals",
		Author:    "dana",
		Timestamp: "1718000000.000100",
		Tags:      []string{"chat", "sales", "chat"},
		Role:      domain.RoleSales,
	})
	require.NoError(t, err)
	require.True(t, ok)

	results, err := f.search.Search(ctx, "pricing", domain.RoleSales, domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	meta := results[0].Metadata
	assert.Equal(t, []string{"chat", "sales"}, meta.Tags)
	channel, _ := meta.Get("channel")
	assert.Equal(t, "#deals", channel)
	author, _ := meta.Get("author")
	assert.Equal(t, "dana", author)
	ts, _ := meta.Get("timestamp")
	assert.Equal(t, "1718000000.000100", ts)
}

func TestAddContext_InvalidInput(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name  string
		entry domain.ContextEntry
	}{
		{"empty content", domain.ContextEntry{Content: "  ", Source: "slack-general"}},
		{"empty source", domain.ContextEntry{Content: "hello"}},
		{"uploaded source", domain.ContextEntry{Content: "hello", Source: domain.UploadedSource("x.pdf")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.docs.AddContext(context.Background(), tt.entry)
			assert.False(t, ok)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAddContext_EmbeddingFailure(t *testing.T) {
	f := newFixture(t)
	f.embedder.failOn = "vacation"

	ok, err := f.docs.AddContext(context.Background(), domain.ContextEntry{Content: "vacation", Source: "slack-general"})

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, f.store.Stats().Documents)
}

func TestSave(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.upload(t, "policy.docx", domain.RoleAdmin, false).Success)

	result, err := f.docs.Save(context.Background())

	require.NoError(t, err)
	assert.Equal(t, f.dir, result.Location)
	assert.Equal(t, 3, result.DocumentsCount)
	assert.Equal(t, 3, result.EmbeddingsCount)
}

func TestDocumentsSurviveReload(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.upload(t, "policy.docx", domain.RoleAdmin, false).Success)

	reloaded := memory.NewVectorStore(jsonfile.New(f.dir))
	require.NoError(t, reloaded.Load(context.Background()))
	docs := NewDocumentService(reloaded, f.normalisers, paragraphChunker{}, f.embedder)

	assert.Equal(t, 3, reloaded.Stats().Documents)
	assert.True(t, docs.CheckDuplicate(context.Background(), "policy.docx", domain.RoleUser))
}
