// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/styles"
)

// State represents what the bar reports on its left side.
type State string

const (
	StateReady     State = "ready"
	StateBusy      State = "busy"
	StateError     State = "error"
	StateResults   State = "results"
	StateNotice    State = "notice"
	StateNoService State = "no_service"
)

// Bar displays the active role, a status message and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	hints   []key.Binding
	role    string
	state   State
	message string
	count   int
	width   int
}

// NewBar creates a status bar for role.
func NewBar(s *styles.Styles, role string) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Bar{
		styles: s,
		role:   role,
		state:  StateReady,
		width:  80,
	}
}

// View renders the bar across the full width.
func (b *Bar) View() string {
	left := b.styles.Role.Render(b.role) + " " + b.renderState()
	right := b.renderHints()

	padding := max(b.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderState() string {
	switch b.state {
	case StateBusy:
		if b.message != "" {
			return b.styles.Muted.Render(b.message)
		}
		return b.styles.Muted.Render("Working...")
	case StateError:
		return b.styles.Error.Render("Error: " + b.message)
	case StateResults:
		return b.styles.Normal.Render(fmt.Sprintf("%d results", b.count))
	case StateNotice:
		return b.styles.Success.Render(b.message)
	case StateNoService:
		return b.styles.Warning.Render("Embedding service not configured")
	case StateReady:
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) renderHints() string {
	hints := make([]string, 0, len(b.hints))
	for _, binding := range b.hints {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetHints sets the keybindings advertised on the right.
func (b *Bar) SetHints(hints []key.Binding) {
	b.hints = hints
}

// SetState sets the state and its message.
func (b *Bar) SetState(state State, message string) {
	b.state = state
	b.message = message
}

// SetResultCount switches to StateResults with count results.
func (b *Bar) SetResultCount(count int) {
	b.state = StateResults
	b.message = ""
	b.count = count
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Clear resets the bar to the ready state.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
	b.count = 0
}
