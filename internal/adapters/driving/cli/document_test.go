package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestUploadCommand(t *testing.T) {
	ts := newTestServices()
	ts.install(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "pricing.pdf", "0123456789")
	b := writeFile(t, dir, "handbook.docx", "abc")

	out := requireRun(t, "upload", a, b, "--role", "sales")

	require.Len(t, ts.document.ingested, 2)
	assert.Equal(t, "pricing.pdf", ts.document.ingested[0].Filename)
	assert.Equal(t, []byte("0123456789"), ts.document.ingested[0].Content)
	assert.Equal(t, domain.RoleSales, ts.document.ingested[0].Role)
	assert.False(t, ts.document.ingested[0].ReplaceExisting)
	assert.Contains(t, out, "✓ pricing.pdf: 2 chunks (10 B)")
	assert.Contains(t, out, "✓ handbook.docx: 2 chunks (3 B)")
	assert.Contains(t, out, "Processed 2 of 2 files, 4 chunks added.")
	assert.NotContains(t, out, "Already stored")
}

func TestUploadCommand_Duplicates(t *testing.T) {
	ts := newTestServices()
	ts.document.ingestFn = func(req domain.IngestRequest) domain.IngestResult {
		return domain.IngestResult{Filename: req.Filename, Duplicate: true, Error: "document already exists"}
	}
	ts.install(t)
	path := writeFile(t, t.TempDir(), "pricing.pdf", "data")

	out := requireRun(t, "upload", path)

	assert.Contains(t, out, "= pricing.pdf: already stored")
	assert.Contains(t, out, "Processed 0 of 1 files, 0 chunks added.")
	assert.Contains(t, out, "Already stored (use --replace or 'assistant replace' to update):")
}

func TestUploadCommand_Failure(t *testing.T) {
	ts := newTestServices()
	ts.document.ingestFn = func(req domain.IngestRequest) domain.IngestResult {
		return domain.IngestResult{Filename: req.Filename, Error: "unsupported file type: .txt"}
	}
	ts.install(t)
	path := writeFile(t, t.TempDir(), "notes.txt", "data")

	out := requireRun(t, "upload", path)

	assert.Contains(t, out, "✗ notes.txt: unsupported file type: .txt")
}

func TestUploadCommand_Partial(t *testing.T) {
	ts := newTestServices()
	ts.document.ingestFn = func(req domain.IngestRequest) domain.IngestResult {
		return domain.IngestResult{Success: true, Filename: req.Filename, ChunksAdded: 1, TotalChunks: 3, FileSize: 2048}
	}
	ts.install(t)
	path := writeFile(t, t.TempDir(), "pricing.pdf", "data")

	out := requireRun(t, "upload", path)

	assert.Contains(t, out, "~ pricing.pdf: 1 of 3 chunks stored (2.0 KB)")
}

func TestUploadCommand_Replace(t *testing.T) {
	ts := newTestServices()
	ts.install(t)
	path := writeFile(t, t.TempDir(), "pricing.pdf", "data")

	out := requireRun(t, "upload", "--replace", path)

	require.Len(t, ts.document.ingested, 1)
	assert.True(t, ts.document.ingested[0].ReplaceExisting)
	assert.Contains(t, out, "✓ pricing.pdf: replaced, 2 chunks")
}

func TestUploadCommand_JSON(t *testing.T) {
	ts := newTestServices()
	ts.install(t)
	path := writeFile(t, t.TempDir(), "pricing.pdf", "data")

	out := requireRun(t, "upload", path, "-o", "json")

	var summary domain.UploadSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 2, summary.ChunksAdded)
}

func TestUploadCommand_MissingFile(t *testing.T) {
	ts := newTestServices()
	ts.install(t)

	_, err := run(t, "upload", filepath.Join(t.TempDir(), "missing.pdf"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
	assert.Empty(t, ts.document.ingested)
}

func TestUploadCommand_RequiresArgs(t *testing.T) {
	newTestServices().install(t)

	_, err := run(t, "upload")

	assert.Error(t, err)
}

func TestReplaceCommand(t *testing.T) {
	ts := newTestServices()
	ts.install(t)
	path := writeFile(t, t.TempDir(), "pricing.pdf", "v2")

	out := requireRun(t, "replace", path)

	require.Len(t, ts.document.ingested, 1)
	assert.True(t, ts.document.ingested[0].ReplaceExisting)
	assert.Equal(t, "pricing.pdf", ts.document.ingested[0].Filename)
	assert.Contains(t, out, "replaced")
}

func TestReplaceCommand_Failure(t *testing.T) {
	ts := newTestServices()
	cause := errors.New("extraction failed")
	ts.document.ingestFn = func(req domain.IngestRequest) domain.IngestResult {
		return domain.IngestResult{Filename: req.Filename, Error: cause.Error(), Err: cause}
	}
	ts.install(t)
	path := writeFile(t, t.TempDir(), "pricing.pdf", "v2")

	out, err := run(t, "replace", path)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, out, "✗ pricing.pdf: extraction failed")
}

func TestListCommand(t *testing.T) {
	ts := newTestServices()
	ts.document.docs = []domain.DocumentSummary{
		{Filename: "pricing.pdf", FileType: "pdf", ChunkCount: 4, UploadedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{Filename: "handbook.docx", FileType: "docx", ChunkCount: 12},
	}
	ts.install(t)

	out := requireRun(t, "list", "-r", "marketing")

	assert.Equal(t, domain.RoleMarketing, ts.document.lastRole)
	assert.Contains(t, out, "FILENAME")
	assert.Contains(t, out, "pricing.pdf")
	assert.Contains(t, out, "handbook.docx")
	assert.Contains(t, out, "12")
}

func TestListCommand_Empty(t *testing.T) {
	newTestServices().install(t)

	out := requireRun(t, "list")

	assert.Equal(t, "No documents uploaded.\n", out)
}

func TestListCommand_EmptyJSON(t *testing.T) {
	newTestServices().install(t)

	out := requireRun(t, "list", "-o", "json")

	assert.Equal(t, "[]\n", out)
}

func TestListCommand_Error(t *testing.T) {
	ts := newTestServices()
	ts.document.listErr = errors.New("disk gone")
	ts.install(t)

	_, err := run(t, "list")

	assert.EqualError(t, err, "failed to list documents: disk gone")
}

func TestDeleteCommand(t *testing.T) {
	ts := newTestServices()
	ts.install(t)

	out := requireRun(t, "delete", "pricing.pdf")

	assert.Equal(t, []string{"pricing.pdf"}, ts.document.deleted)
	assert.Equal(t, "Deleted pricing.pdf (3 chunks).\n", out)
}

func TestDeleteCommand_NothingRemoved(t *testing.T) {
	ts := newTestServices()
	ts.document.deleteFn = func(string) domain.DeleteResult {
		return domain.DeleteResult{Success: true}
	}
	ts.install(t)

	out := requireRun(t, "delete", "missing.pdf")

	assert.Equal(t, "No stored document named missing.pdf.\n", out)
}

func TestDeleteCommand_Failure(t *testing.T) {
	ts := newTestServices()
	ts.document.deleteFn = func(string) domain.DeleteResult {
		return domain.DeleteResult{Error: "failed to save store"}
	}
	ts.install(t)

	out, err := run(t, "delete", "pricing.pdf")

	assert.EqualError(t, err, "delete failed: failed to save store")
	assert.Contains(t, out, "Failed to delete pricing.pdf")
}

func TestCheckCommand(t *testing.T) {
	ts := newTestServices()
	ts.document.stored = map[string]bool{"pricing.pdf": true}
	ts.install(t)

	assert.Equal(t, "pricing.pdf is already stored.\n", requireRun(t, "check", "docs/pricing.pdf"))
	assert.Equal(t, "other.pdf is not stored.\n", requireRun(t, "check", "other.pdf"))

	out := requireRun(t, "check", "pricing.pdf", "-o", "json")
	var got checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, checkResult{Filename: "pricing.pdf", Exists: true}, got)
}

func TestSaveCommand(t *testing.T) {
	ts := newTestServices()
	ts.document.saveResult = domain.SaveResult{Location: "/data/vector_db", DocumentsCount: 5, EmbeddingsCount: 5}
	ts.install(t)

	out := requireRun(t, "save")

	assert.Equal(t, "Saved 5 documents and 5 embeddings to /data/vector_db\n", out)
}

func TestSaveCommand_Error(t *testing.T) {
	ts := newTestServices()
	ts.document.saveErr = errors.New("read-only file system")
	ts.install(t)

	_, err := run(t, "save")

	assert.EqualError(t, err, "save failed: read-only file system")
}
