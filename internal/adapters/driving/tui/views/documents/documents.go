// Package documents provides the document history view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/components/list"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// View is the document history view.
type View struct {
	styles          *styles.Styles
	session         driving.Session
	documentService driving.DocumentService
	ctx             context.Context

	doclist *list.DocumentList
	loading bool
	err     error
	width   int
	height  int
	ready   bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, session driving.Session, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		session:         session,
		documentService: documentService,
		ctx:             context.Background(),
		doclist:         list.NewDocumentList(s),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads the history.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// load returns a command that fetches the document history.
func (v *View) load() tea.Cmd {
	if v.documentService == nil {
		return func() tea.Msg {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}
	}

	v.loading = true
	service := v.documentService
	ctx := v.ctx
	return func() tea.Msg {
		records, err := service.List(ctx)
		return messages.DocumentsLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.err = nil
			v.doclist.SetRecords(msg.Records)
		}
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		// Reload the list after a deletion.
		return v, v.load()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j":
		var cmd tea.Cmd
		v.doclist, cmd = v.doclist.Update(msg)
		return v, cmd

	case "enter":
		return v, v.open()

	case "x":
		return v, v.delete()

	case "r":
		return v, v.load()
	}

	return v, nil
}

// open activates the selected document.
func (v *View) open() tea.Cmd {
	record := v.doclist.SelectedRecord()
	if record == nil {
		return nil
	}

	session := v.session
	ctx := v.ctx
	id := record.ID
	return func() tea.Msg {
		return messages.DocumentOpened{DocumentID: id, Err: session.OpenDocument(ctx, id)}
	}
}

// delete removes the selected document everywhere.
func (v *View) delete() tea.Cmd {
	record := v.doclist.SelectedRecord()
	if record == nil || v.documentService == nil {
		return nil
	}

	service := v.documentService
	ctx := v.ctx
	id := record.ID
	return func() tea.Msg {
		return messages.DocumentDeleted{DocumentID: id, Err: service.Delete(ctx, id)}
	}
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Documents"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
	default:
		b.WriteString(v.doclist.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(
		"[enter] open  [x] delete  [r] refresh  [ctrl+u] upload  [esc] back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.doclist.SetDimensions(width, height-6)
}

// Selected returns the selected list index.
func (v *View) Selected() int {
	return v.doclist.Selected()
}

// Count returns the number of listed documents.
func (v *View) Count() int {
	return v.doclist.Count()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
