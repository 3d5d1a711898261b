package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
)

type mockDocumentService struct {
	ingested   []domain.IngestRequest
	ingestFn   func(req domain.IngestRequest) domain.IngestResult
	docs       []domain.DocumentSummary
	listErr    error
	deleted    []string
	deleteFn   func(filename string) domain.DeleteResult
	stored     map[string]bool
	contexts   []domain.ContextEntry
	contextOK  bool
	contextErr error
	saveResult domain.SaveResult
	saveErr    error
	lastRole   domain.Role
}

var _ driving.DocumentService = (*mockDocumentService)(nil)

func (m *mockDocumentService) ProcessDocument(_ context.Context, req domain.IngestRequest) domain.IngestResult {
	m.ingested = append(m.ingested, req)
	m.lastRole = req.Role
	if m.ingestFn != nil {
		return m.ingestFn(req)
	}
	return domain.IngestResult{
		Success:     true,
		Filename:    req.Filename,
		ChunksAdded: 2,
		TotalChunks: 2,
		FileSize:    int64(len(req.Content)),
		Replaced:    req.ReplaceExisting,
	}
}

func (m *mockDocumentService) ProcessBatch(ctx context.Context, reqs []domain.IngestRequest) domain.UploadSummary {
	summary := domain.UploadSummary{DuplicatesFound: []string{}}
	for _, req := range reqs {
		result := m.ProcessDocument(ctx, req)
		summary.Results = append(summary.Results, result)
		switch {
		case result.Success:
			summary.FilesProcessed++
			summary.ChunksAdded += result.ChunksAdded
		case result.Duplicate:
			summary.DuplicatesFound = append(summary.DuplicatesFound, result.Filename)
		}
	}
	return summary
}

func (m *mockDocumentService) CheckDuplicate(_ context.Context, filename string, role domain.Role) bool {
	m.lastRole = role
	return m.stored[filename]
}

func (m *mockDocumentService) Delete(_ context.Context, filename string, role domain.Role) domain.DeleteResult {
	m.lastRole = role
	m.deleted = append(m.deleted, filename)
	if m.deleteFn != nil {
		return m.deleteFn(filename)
	}
	return domain.DeleteResult{Success: true, ChunksRemoved: 3}
}

func (m *mockDocumentService) List(_ context.Context, role domain.Role) ([]domain.DocumentSummary, error) {
	m.lastRole = role
	return m.docs, m.listErr
}

func (m *mockDocumentService) AddContext(_ context.Context, entry domain.ContextEntry) (bool, error) {
	m.contexts = append(m.contexts, entry)
	m.lastRole = entry.Role
	return m.contextOK, m.contextErr
}

func (m *mockDocumentService) Save(_ context.Context) (domain.SaveResult, error) {
	return m.saveResult, m.saveErr
}

type mockSearchService struct {
	results   []domain.SearchResult
	err       error
	connected bool
	gotQuery  string
	gotRole   domain.Role
	gotOpts   domain.SearchOptions
}

var _ driving.SearchService = (*mockSearchService)(nil)

func (m *mockSearchService) Search(_ context.Context, query string, role domain.Role, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.gotQuery, m.gotRole, m.gotOpts = query, role, opts
	return m.results, m.err
}

func (m *mockSearchService) SearchUploaded(ctx context.Context, query string, role domain.Role, limit int) ([]domain.SearchResult, error) {
	return m.Search(ctx, query, role, domain.SearchOptions{Limit: limit, UploadedOnly: true})
}

func (m *mockSearchService) IsConnected() bool {
	return m.connected
}

type mockSettingsService struct {
	settings    domain.AppSettings
	getErr      error
	validateErr error
	pingErr     error
	setErr      error

	provider domain.AIProvider
	model    string
	apiKey   string
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func newMockSettings() *mockSettingsService {
	s := domain.DefaultAppSettings()
	s.Storage.Path = "/tmp/assistant/vector_db"
	return &mockSettingsService{settings: s}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.provider, m.model, m.apiKey = provider, model, apiKey
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetStorage(path string, backend domain.StorageBackend) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.settings.Storage = domain.StorageSettings{Path: path, Backend: backend}
	return nil
}

func (m *mockSettingsService) SetChunking(chunkSize, overlap int) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.settings.Chunking = domain.ChunkingSettings{ChunkSize: chunkSize, Overlap: overlap}
	return nil
}

func (m *mockSettingsService) SetDefaultRole(role domain.Role) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.settings.DefaultRole = role
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.pingErr
}

type mockInbox struct {
	dir    string
	role   domain.Role
	events []domain.InboxEvent
	err    error
}

var _ driving.InboxService = (*mockInbox)(nil)

func (m *mockInbox) Run(_ context.Context, onEvent func(domain.InboxEvent)) error {
	for _, e := range m.events {
		if onEvent != nil {
			onEvent(e)
		}
	}
	return m.err
}

func (m *mockInbox) Apply(_ context.Context, change domain.FileChange) domain.InboxEvent {
	return domain.InboxEvent{Change: change}
}

type testServices struct {
	document *mockDocumentService
	search   *mockSearchService
	settings *mockSettingsService
	inbox    *mockInbox
	closed   int
}

func newTestServices() *testServices {
	return &testServices{
		document: &mockDocumentService{contextOK: true},
		search:   &mockSearchService{connected: true},
		settings: newMockSettings(),
		inbox:    &mockInbox{},
	}
}

func (ts *testServices) install(t *testing.T) {
	t.Helper()
	SetServices(&Services{
		Document: ts.document,
		Search:   ts.search,
		Settings: ts.settings,
		NewInbox: func(dir string, role domain.Role) driving.InboxService {
			ts.inbox.dir, ts.inbox.role = dir, role
			return ts.inbox
		},
		Close: func() error {
			ts.closed++
			return nil
		},
	})
	t.Cleanup(func() { SetServices(nil) })
}

// resetFlags restores every flag to its default so pflag state does not
// leak between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !strings.HasSuffix(f.Value.Type(), "Slice") {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, in io.Reader, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	contextTags = nil

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetIn(nil)

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := execute(t, nil, args...)
	return stdout, err
}

func requireRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err)
	return out
}
