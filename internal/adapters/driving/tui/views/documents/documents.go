// Package documents provides the uploaded documents view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/components/list"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/components/status"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/keymap"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/messages"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui/styles"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service is required")

// View lists uploaded documents and deletes them after confirmation.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	statusbar       *status.Bar
	documentService driving.DocumentService
	role            domain.Role
	ctx             context.Context

	documents    []domain.DocumentSummary
	selected     int
	scrollOffset int
	confirming   string
	loading      bool
	err          error
	width        int
	height       int
}

// NewView creates a documents view acting as role.
func NewView(s *styles.Styles, km *keymap.KeyMap, documentService driving.DocumentService, role domain.Role) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	bar := status.NewBar(s, role.String())
	bar.SetHints(km.DocumentsHelp())

	return &View{
		styles:          s,
		keymap:          km,
		statusbar:       bar,
		documentService: documentService,
		role:            role,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context service calls run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.confirming = ""
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	svc, ctx, role := v.documentService, v.ctx, v.role
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		docs, err := svc.List(ctx, role)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

func (v *View) deleteDocument(filename string) tea.Cmd {
	svc, ctx, role := v.documentService, v.ctx, v.role
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoDocumentService}
		}
		return messages.DocumentDeleted{Filename: filename, Result: svc.Delete(ctx, filename, role)}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming != "" {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError, msg.Err.Error())
			return v, nil
		}
		v.err = nil
		v.documents = msg.Documents
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.DocumentDeleted:
		if !msg.Result.Success {
			v.statusbar.SetState(status.StateError, msg.Result.Error)
			return v, nil
		}
		v.statusbar.SetState(status.StateNotice,
			fmt.Sprintf("Deleted %s (%d chunks)", msg.Filename, msg.Result.ChunksRemoved))
		v.loading = true
		return v, v.loadDocuments()

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError, msg.Err.Error())
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	pressed := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(pressed, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(pressed, v.keymap.Down):
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(pressed, v.keymap.Delete):
		if doc := v.SelectedDocument(); doc != nil {
			v.confirming = doc.Filename
		}
	case keymap.Matches(pressed, v.keymap.Refresh):
		v.loading = true
		return v, v.loadDocuments()
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	filename := v.confirming
	v.confirming = ""
	if keymap.Matches(msg.String(), v.keymap.Confirm) {
		v.statusbar.SetState(status.StateBusy, "Deleting "+filename+"...")
		return v, v.deleteDocument(filename)
	}
	return v, nil
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Uploaded Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents uploaded."))
	default:
		v.renderList(&b)
	}

	if v.confirming != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %s? [y/N]", v.confirming)))
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderList(b *strings.Builder) {
	nameWidth := max(v.width/2, 16)
	visible := v.visibleItemCount()
	end := min(v.scrollOffset+visible, len(v.documents))

	for i := v.scrollOffset; i < end; i++ {
		doc := &v.documents[i]
		uploaded := "-"
		if !doc.UploadedAt.IsZero() {
			uploaded = doc.UploadedAt.Local().Format("2006-01-02 15:04")
		}
		line := fmt.Sprintf("%-*s %-6s %4d chunks  %s",
			nameWidth, list.Truncate(doc.Filename, nameWidth), doc.FileType, doc.ChunkCount, uploaded)

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(v.documents) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", v.scrollOffset+1, end, len(v.documents))))
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusbar.SetWidth(width)
	v.adjustScroll()
}

// Documents returns the loaded documents.
func (v *View) Documents() []domain.DocumentSummary {
	return v.documents
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}

// SelectedDocument returns the selected document, or nil if the list is empty.
func (v *View) SelectedDocument() *domain.DocumentSummary {
	if v.selected < 0 || v.selected >= len(v.documents) {
		return nil
	}
	return &v.documents[v.selected]
}

// Confirming returns the filename awaiting delete confirmation.
func (v *View) Confirming() string {
	return v.confirming
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
