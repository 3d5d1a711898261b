package tui

import (
	"context"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

type mockSearchService struct {
	results   []domain.SearchResult
	err       error
	connected bool
	gotRole   domain.Role
	gotOpts   domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context, _ string, role domain.Role, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.gotRole = role
	m.gotOpts = opts
	return m.results, m.err
}

func (m *mockSearchService) SearchUploaded(
	ctx context.Context, query string, role domain.Role, limit int,
) ([]domain.SearchResult, error) {
	return m.Search(ctx, query, role, domain.SearchOptions{Limit: limit, UploadedOnly: true})
}

func (m *mockSearchService) IsConnected() bool {
	return m.connected
}

type mockDocumentService struct {
	docs    []domain.DocumentSummary
	listErr error
	deleted []string
}

func (m *mockDocumentService) ProcessDocument(context.Context, domain.IngestRequest) domain.IngestResult {
	return domain.IngestResult{}
}

func (m *mockDocumentService) ProcessBatch(context.Context, []domain.IngestRequest) domain.UploadSummary {
	return domain.UploadSummary{}
}

func (m *mockDocumentService) CheckDuplicate(context.Context, string, domain.Role) bool {
	return false
}

func (m *mockDocumentService) Delete(_ context.Context, filename string, _ domain.Role) domain.DeleteResult {
	m.deleted = append(m.deleted, filename)
	return domain.DeleteResult{Success: true, ChunksRemoved: 1}
}

func (m *mockDocumentService) List(context.Context, domain.Role) ([]domain.DocumentSummary, error) {
	return m.docs, m.listErr
}

func (m *mockDocumentService) AddContext(context.Context, domain.ContextEntry) (bool, error) {
	return true, nil
}

func (m *mockDocumentService) Save(context.Context) (domain.SaveResult, error) {
	return domain.SaveResult{}, nil
}
