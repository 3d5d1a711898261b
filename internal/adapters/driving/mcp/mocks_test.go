package mcp

import (
	"context"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	gotRole  domain.Role
	gotOpts  domain.SearchOptions
	gotQuery string
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	role domain.Role,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.gotQuery, m.gotRole, m.gotOpts = query, role, opts
	return m.results, m.err
}

func (m *mockSearchService) SearchUploaded(
	ctx context.Context,
	query string,
	role domain.Role,
	limit int,
) ([]domain.SearchResult, error) {
	return m.Search(ctx, query, role, domain.SearchOptions{Limit: limit, UploadedOnly: true})
}

func (m *mockSearchService) IsConnected() bool { return true }

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	docs         []domain.DocumentSummary
	ingest       domain.IngestResult
	deleteResult domain.DeleteResult
	exists       bool
	stored       bool
	save         domain.SaveResult
	err          error

	gotRole    domain.Role
	gotRequest domain.IngestRequest
	gotContext domain.ContextEntry
}

func (m *mockDocumentService) ProcessDocument(_ context.Context, req domain.IngestRequest) domain.IngestResult {
	m.gotRequest = req
	m.gotRole = req.Role
	return m.ingest
}

func (m *mockDocumentService) ProcessBatch(ctx context.Context, reqs []domain.IngestRequest) domain.UploadSummary {
	summary := domain.UploadSummary{DuplicatesFound: []string{}}
	for _, req := range reqs {
		summary.Results = append(summary.Results, m.ProcessDocument(ctx, req))
	}
	return summary
}

func (m *mockDocumentService) CheckDuplicate(_ context.Context, _ string, role domain.Role) bool {
	m.gotRole = role
	return m.exists
}

func (m *mockDocumentService) Delete(_ context.Context, _ string, role domain.Role) domain.DeleteResult {
	m.gotRole = role
	return m.deleteResult
}

func (m *mockDocumentService) List(_ context.Context, role domain.Role) ([]domain.DocumentSummary, error) {
	m.gotRole = role
	return m.docs, m.err
}

func (m *mockDocumentService) AddContext(_ context.Context, entry domain.ContextEntry) (bool, error) {
	m.gotContext = entry
	return m.stored, m.err
}

func (m *mockDocumentService) Save(_ context.Context) (domain.SaveResult, error) {
	return m.save, m.err
}
