package list

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

func results(n int) []domain.SearchResult {
	out := make([]domain.SearchResult, n)
	for i := range out {
		out[i] = domain.SearchResult{Content: "chunk", Source: "slack_general", Score: 0.5}
	}
	return out
}

func TestResultList_Empty(t *testing.T) {
	r := NewResultList(nil)

	assert.Equal(t, 0, r.Count())
	assert.Nil(t, r.SelectedResult())
	assert.Contains(t, r.View(), "No results")
}

func TestResultList_Navigation(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(results(3))

	r.MoveUp()
	assert.Equal(t, 0, r.Selected())
	r.MoveDown()
	r.MoveDown()
	r.MoveDown()
	assert.Equal(t, 2, r.Selected())

	r.SetResults(results(1))
	assert.Equal(t, 0, r.Selected())
}

func TestResultList_ViewWindowFollowsSelection(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(80, 8) // two results visible
	list := results(5)
	list[4].Source = "email_last"
	r.SetResults(list)

	assert.NotContains(t, r.View(), "email_last")

	for range 4 {
		r.MoveDown()
	}
	out := r.View()
	assert.Contains(t, out, "Results (5)")
	assert.Contains(t, out, "email_last")
}

func TestResultList_CollapsesWhitespaceInPreview(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults([]domain.SearchResult{{Content: "line one\n\n   line two", Source: "x"}})

	assert.Contains(t, r.View(), "line one line two")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "a.pdf", Title(&domain.SearchResult{Source: "uploaded_document_a.pdf", Metadata: domain.Metadata{Filename: "a.pdf"}}))
	assert.Equal(t, "slack_general", Title(&domain.SearchResult{Source: "slack_general"}))
	assert.Equal(t, "(untitled)", Title(&domain.SearchResult{}))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated text", 8, "trunc..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.n), tt.in)
	}
}
