package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/messages"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

func TestView_NotReady(t *testing.T) {
	v := NewView(nil, domain.RoleUser)
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_Render(t *testing.T) {
	v := NewView(nil, domain.RoleDeveloper)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	out := v.View()

	assert.Contains(t, out, "Internal Assistant")
	assert.Contains(t, out, "developer")
	for _, item := range v.Items() {
		assert.Contains(t, out, item.Label)
	}
}

func TestView_Navigation(t *testing.T) {
	v := NewView(nil, domain.RoleUser)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.Selected())

	for range 10 {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	}
	assert.Equal(t, len(v.Items())-1, v.Selected())
}

func TestView_SelectDocuments(t *testing.T) {
	v := NewView(nil, domain.RoleUser)
	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDocuments}, cmd())
}

func TestView_Quit(t *testing.T) {
	v := NewView(nil, domain.RoleUser)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	for range len(v.Items()) {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
