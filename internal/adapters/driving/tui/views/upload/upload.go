// Package upload provides the upload prompt view for the TUI.
package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/components/input"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// View is the upload prompt view.
type View struct {
	styles  *styles.Styles
	session driving.Session
	ctx     context.Context

	pathIn *input.ChatInput
	err    error
	width  int
	height int
	ready  bool
}

// NewView creates a new upload view.
func NewView(s *styles.Styles, session driving.Session) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	pathIn := input.NewChatInput(s)
	pathIn.SetPlaceholder("Path to a document...")

	return &View{
		styles:  s,
		session: session,
		ctx:     context.Background(),
		pathIn:  pathIn,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the upload view.
func (v *View) Init() tea.Cmd {
	return v.pathIn.Init()
}

// Reset clears the prompt.
func (v *View) Reset() {
	v.pathIn.Reset()
	v.err = nil
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.pathIn, cmd = v.pathIn.Update(msg)
		return v, cmd

	case messages.UploadStarted:
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	v.pathIn, cmd = v.pathIn.Update(msg)
	return v, cmd
}

// submit validates the typed path and hands the file to the session.
func (v *View) submit() tea.Cmd {
	path := strings.TrimSpace(v.pathIn.Value())
	if path == "" {
		return nil
	}

	v.err = nil
	session := v.session
	ctx := v.ctx
	return func() tea.Msg {
		filename := filepath.Base(path)

		info, err := os.Stat(path)
		if err != nil {
			return messages.UploadStarted{Filename: filename, Err: err}
		}
		if err := domain.ValidateUpload(filename, info.Size()); err != nil {
			return messages.UploadStarted{Filename: filename, Err: err}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return messages.UploadStarted{Filename: filename, Err: err}
		}

		return messages.UploadStarted{Filename: filename, Err: session.Upload(ctx, filename, data)}
	}
}

// View renders the upload view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Upload a document"))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
		"Accepted: %s, up to %d MB.",
		strings.Join(domain.AcceptedExtensions(), ", "),
		domain.MaxUploadSize/(1024*1024))))
	b.WriteString("\n\n")

	b.WriteString(v.pathIn.View())
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[enter] upload  [esc] back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.pathIn.SetWidth(width)
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
