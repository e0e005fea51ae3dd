// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/keymap"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// Bar displays the session state, the open document, and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    domain.SessionState
	document string
	message  string
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  domain.StateRestoring,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// The bar is passive, updated via Set methods.
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the session state and open document.
func (b *Bar) renderLeft() string {
	if b.message != "" {
		return b.styles.Error.Render(fmt.Sprintf("Error: %s", b.message))
	}

	switch b.state {
	case domain.StateUnauthenticated:
		return b.styles.Warning.Render("Signed out")
	case domain.StateRestoring:
		return b.styles.Muted.Render("Restoring session...")
	case domain.StateNoActiveDocument:
		return b.styles.Muted.Render("No document open")
	case domain.StateUploading:
		return b.styles.Muted.Render("Uploading...")
	case domain.StateActivatingIndex:
		return b.styles.Muted.Render("Preparing document...")
	case domain.StateActiveReady:
		if b.document != "" {
			return b.styles.Success.Render(b.document)
		}
		return b.styles.Success.Render("Ready")
	}
	return b.styles.Muted.Render(b.state.String())
}

// renderRight renders keybinding hints.
func (b *Bar) renderRight() string {
	var bindings []key.Binding
	if b.state == domain.StateActiveReady {
		bindings = b.keymap.ChatHelp()
	} else {
		bindings = b.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the session state shown on the left.
func (b *Bar) SetState(state domain.SessionState) {
	b.state = state
}

// State returns the displayed state.
func (b *Bar) State() domain.SessionState {
	return b.state
}

// SetDocument sets the open document's filename.
func (b *Bar) SetDocument(filename string) {
	b.document = filename
}

// Document returns the displayed document name.
func (b *Bar) Document() string {
	return b.document
}

// SetMessage sets an error message, overriding the state display.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

// Clear resets the error message.
func (b *Bar) Clear() {
	b.message = ""
}
