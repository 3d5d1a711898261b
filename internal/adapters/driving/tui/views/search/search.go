// Package search provides the search view for the TUI.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/components/input"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/components/list"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/components/status"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/keymap"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/messages"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/styles"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
)

// mode is which part of the view owns the keyboard.
type mode int

const (
	modeInput mode = iota
	modeResults
	modeDetail
)

// View is the search view: query input, result list, detail pane and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	detail    viewport.Model
	statusbar *status.Bar

	searchService driving.SearchService
	role          domain.Role
	ctx           context.Context

	mode         mode
	uploadedOnly bool
	lastQuery    string
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a search view that queries as role.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService, role domain.Role) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		list:          list.NewResultList(s),
		detail:        viewport.New(80, 12),
		statusbar:     status.NewBar(s, role.String()),
		searchService: searchService,
		role:          role,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
	v.enterInput()
	return v
}

// WithContext sets the context searches run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	if v.searchService != nil && !v.searchService.IsConnected() {
		v.statusbar.SetState(status.StateNoService, "")
	}
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case modeDetail:
		return v.handleDetailKey(msg)
	case modeResults:
		return v.handleResultsKey(msg)
	case modeInput:
	}

	switch {
	case msg.Type == tea.KeyEsc:
		return v, backToMenu
	case keymap.Matches(msg.String(), v.keymap.UploadedOnly):
		v.uploadedOnly = !v.uploadedOnly
		v.updateLabel()
		return v, nil
	case msg.Type == tea.KeyEnter:
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		v.statusbar.SetState(status.StateBusy, "Searching...")
		return v, v.performSearch(query)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	pressed := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		return v, backToMenu
	case keymap.Matches(pressed, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(pressed, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(pressed, v.keymap.Open):
		if result := v.list.SelectedResult(); result != nil {
			v.openDetail(result)
		}
	case keymap.Matches(pressed, v.keymap.NewSearch):
		v.input.SetValue("")
		return v, v.enterInput()
	}
	return v, nil
}

func (v *View) handleDetailKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.String() == "q" {
		v.mode = modeResults
		v.statusbar.SetHints(v.keymap.ResultsHelp())
		return v, nil
	}
	var cmd tea.Cmd
	v.detail, cmd = v.detail.Update(msg)
	return v, cmd
}

func (v *View) openDetail(result *domain.SearchResult) {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(list.Title(result)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("source: %s  score: %.3f", result.Source, result.Score)))
	if len(result.Metadata.Tags) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("tags: " + strings.Join(result.Metadata.Tags, ", ")))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(result.Content))

	v.detail.SetContent(b.String())
	v.detail.GotoTop()
	v.mode = modeDetail
	v.statusbar.SetHints([]key.Binding{v.keymap.Up, v.keymap.Down, v.keymap.Back})
}

func (v *View) enterInput() tea.Cmd {
	v.mode = modeInput
	v.statusbar.SetHints(v.keymap.SearchHelp())
	v.updateLabel()
	return v.input.Focus()
}

func (v *View) updateLabel() {
	if v.uploadedOnly {
		v.input.SetLabel("Search uploads")
	} else {
		v.input.SetLabel("Search")
	}
}

// performSearch runs the query asynchronously.
func (v *View) performSearch(query string) tea.Cmd {
	svc, ctx, role := v.searchService, v.ctx, v.role
	opts := domain.SearchOptions{UploadedOnly: v.uploadedOnly}
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, query, role, opts)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.lastQuery = msg.Query
	v.list.SetResults(msg.Results)
	v.statusbar.SetResultCount(len(msg.Results))
	if len(msg.Results) == 0 {
		return
	}
	v.mode = modeResults
	v.input.Blur()
	v.statusbar.SetHints(v.keymap.ResultsHelp())
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError, err.Error())
}

func backToMenu() tea.Msg {
	return messages.ViewChanged{View: messages.ViewMenu}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Internal Assistant"), "")

	if v.mode == modeDetail {
		sections = append(sections, v.styles.Border.Render(v.detail.View()))
	} else {
		sections = append(sections, v.input.View(), "")
		if v.err != nil {
			sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
		}
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.detail.Width = max(width-4, 20)
	v.detail.Height = max(height-8, 3)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view has dimensions.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the text in the query input.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the query input.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// LastQuery returns the query of the most recent successful search.
func (v *View) LastQuery() string {
	return v.lastQuery
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// UploadedOnly reports whether searches are restricted to uploads.
func (v *View) UploadedOnly() bool {
	return v.uploadedOnly
}

// InputFocused returns whether the query input owns the keyboard.
func (v *View) InputFocused() bool {
	return v.mode == modeInput
}

// ShowingDetail returns whether the detail pane is open.
func (v *View) ShowingDetail() bool {
	return v.mode == modeDetail
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to an empty input.
func (v *View) Reset() {
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.lastQuery = ""
	v.statusbar.Clear()
	if v.searchService != nil && !v.searchService.IsConnected() {
		v.statusbar.SetState(status.StateNoService, "")
	}
	v.enterInput()
}
