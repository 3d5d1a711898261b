package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/components/status"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/messages"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

type mockDocumentService struct {
	docs      []domain.DocumentSummary
	listErr   error
	deleteRes domain.DeleteResult
	listRoles []domain.Role
	deleted   []string
}

func (m *mockDocumentService) ProcessDocument(context.Context, domain.IngestRequest) domain.IngestResult {
	return domain.IngestResult{}
}

func (m *mockDocumentService) ProcessBatch(context.Context, []domain.IngestRequest) domain.UploadSummary {
	return domain.UploadSummary{}
}

func (m *mockDocumentService) CheckDuplicate(context.Context, string, domain.Role) bool { return false }

func (m *mockDocumentService) Delete(_ context.Context, filename string, _ domain.Role) domain.DeleteResult {
	m.deleted = append(m.deleted, filename)
	return m.deleteRes
}

func (m *mockDocumentService) List(_ context.Context, role domain.Role) ([]domain.DocumentSummary, error) {
	m.listRoles = append(m.listRoles, role)
	return m.docs, m.listErr
}

func (m *mockDocumentService) AddContext(context.Context, domain.ContextEntry) (bool, error) {
	return true, nil
}

func (m *mockDocumentService) Save(context.Context) (domain.SaveResult, error) {
	return domain.SaveResult{}, nil
}

func testDocs() []domain.DocumentSummary {
	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return []domain.DocumentSummary{
		{Filename: "handbook.docx", FileType: "docx", ChunkCount: 12, UploadedAt: at},
		{Filename: "pricing.pdf", FileType: "pdf", ChunkCount: 4, UploadedAt: at},
		{Filename: "notes.txt", FileType: "txt", ChunkCount: 1},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a view whose Init has completed against svc.
func loaded(t *testing.T, svc *mockDocumentService) *View {
	t.Helper()
	v := NewView(nil, nil, svc, domain.RoleMarketing)
	v.SetDimensions(120, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	v.Update(cmd())
	return v
}

func TestView_Load(t *testing.T) {
	svc := &mockDocumentService{docs: testDocs()}
	v := loaded(t, svc)

	assert.False(t, v.Loading())
	assert.Equal(t, []domain.Role{domain.RoleMarketing}, svc.listRoles)
	assert.Len(t, v.Documents(), 3)

	out := v.View()
	assert.Contains(t, out, "Uploaded Documents (3)")
	assert.Contains(t, out, "handbook.docx")
	assert.Contains(t, out, "12 chunks")
}

func TestView_Empty(t *testing.T) {
	v := loaded(t, &mockDocumentService{})

	assert.Contains(t, v.View(), "No documents uploaded.")
	assert.Nil(t, v.SelectedDocument())
}

func TestView_LoadError(t *testing.T) {
	v := loaded(t, &mockDocumentService{listErr: errors.New("store closed")})

	assert.EqualError(t, v.Err(), "store closed")
	assert.Contains(t, v.View(), "Error: store closed")
}

func TestView_NilService(t *testing.T) {
	v := NewView(nil, nil, nil, domain.RoleUser)

	v.Update(v.Init()())

	assert.ErrorIs(t, v.Err(), ErrNoDocumentService)
}

func TestView_Navigation(t *testing.T) {
	v := loaded(t, &mockDocumentService{docs: testDocs()})

	v.Update(runes("j"))
	v.Update(runes("j"))
	v.Update(runes("j"))
	assert.Equal(t, 2, v.Selected())

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "pricing.pdf", v.SelectedDocument().Filename)
}

func TestView_DeleteConfirmed(t *testing.T) {
	svc := &mockDocumentService{docs: testDocs(), deleteRes: domain.DeleteResult{Success: true, ChunksRemoved: 4}}
	v := loaded(t, svc)
	v.Update(runes("j"))

	v.Update(runes("d"))
	assert.Equal(t, "pricing.pdf", v.Confirming())
	assert.Contains(t, v.View(), "Delete pricing.pdf? [y/N]")

	_, cmd := v.Update(runes("y"))
	require.NotNil(t, cmd)
	assert.Empty(t, v.Confirming())

	svc.docs = testDocs()[:1]
	_, cmd = v.Update(cmd())
	assert.Equal(t, []string{"pricing.pdf"}, svc.deleted)
	assert.Equal(t, status.StateNotice, v.Status().State())
	assert.Equal(t, "Deleted pricing.pdf (4 chunks)", v.Status().Message())

	require.NotNil(t, cmd)
	v.Update(cmd())
	assert.Len(t, v.Documents(), 1)
	assert.Equal(t, 0, v.Selected())
}

func TestView_DeleteCancelled(t *testing.T) {
	svc := &mockDocumentService{docs: testDocs()}
	v := loaded(t, svc)

	v.Update(runes("d"))
	_, cmd := v.Update(runes("n"))

	assert.Nil(t, cmd)
	assert.Empty(t, v.Confirming())
	assert.Empty(t, svc.deleted)
}

func TestView_DeleteFailure(t *testing.T) {
	svc := &mockDocumentService{
		docs:      testDocs(),
		deleteRes: domain.DeleteResult{Error: "document handbook.docx not found"},
	}
	v := loaded(t, svc)

	v.Update(runes("d"))
	_, cmd := v.Update(runes("y"))
	_, cmd = v.Update(cmd())

	assert.Nil(t, cmd)
	assert.Equal(t, status.StateError, v.Status().State())
	assert.Equal(t, "document handbook.docx not found", v.Status().Message())
}

func TestView_Refresh(t *testing.T) {
	svc := &mockDocumentService{docs: testDocs()}
	v := loaded(t, svc)

	_, cmd := v.Update(runes("r"))

	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	assert.Contains(t, v.View(), "Loading documents...")
	v.Update(cmd())
	assert.Len(t, svc.listRoles, 2)
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := loaded(t, &mockDocumentService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_ScrollIndicator(t *testing.T) {
	docs := make([]domain.DocumentSummary, 20)
	for i := range docs {
		docs[i] = domain.DocumentSummary{Filename: "doc.txt", FileType: "txt", ChunkCount: 1}
	}
	v := NewView(nil, nil, &mockDocumentService{docs: docs}, domain.RoleAdmin)
	v.SetDimensions(80, 12)
	v.Update(v.Init()())

	assert.Contains(t, v.View(), "[1-4 of 20]")

	for range 10 {
		v.Update(runes("j"))
	}
	assert.Contains(t, v.View(), "[8-11 of 20]")
}
