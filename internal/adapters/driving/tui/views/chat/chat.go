// Package chat provides the conversation view for the active document.
package chat

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/components/input"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// View is the chat conversation view.
type View struct {
	styles  *styles.Styles
	session driving.Session
	ctx     context.Context

	chatIn *input.ChatInput

	// lines is the wrapped transcript; scrollOffset indexes into it.
	lines        []string
	scrollOffset int
	// pinned is true while the user has scrolled away from the bottom.
	pinned bool

	err    error
	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, session driving.Session) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:  s,
		session: session,
		ctx:     context.Background(),
		chatIn:  input.NewChatInput(s),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the chat view.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return v.chatIn.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SessionUpdated:
		v.Refresh()
		return v, nil

	case messages.MessageSent:
		if msg.Err != nil {
			v.err = msg.Err
		}
		v.Refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	v.chatIn, cmd = v.chatIn.Update(msg)
	return v, cmd
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v, v.submit()

	case "up":
		if v.scrollOffset > 0 {
			v.scrollOffset--
			v.pinned = true
		}
		return v, nil

	case "down":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
		if v.scrollOffset >= v.maxScrollOffset() {
			v.pinned = false
		}
		return v, nil

	case "pgup":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
		v.pinned = true
		return v, nil

	case "pgdown":
		v.scrollOffset += v.visibleLines()
		if v.scrollOffset >= v.maxScrollOffset() {
			v.scrollOffset = v.maxScrollOffset()
			v.pinned = false
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.chatIn, cmd = v.chatIn.Update(msg)
	return v, cmd
}

// submit sends the typed message, if the session can accept one.
func (v *View) submit() tea.Cmd {
	text := strings.TrimSpace(v.chatIn.Value())
	if text == "" {
		return nil
	}

	snap := v.session.Snapshot()
	if snap.State != domain.StateActiveReady || snap.AwaitingAnswer {
		return nil
	}

	v.chatIn.Reset()
	v.err = nil

	session := v.session
	ctx := v.ctx
	return func() tea.Msg {
		return messages.MessageSent{Err: session.Send(ctx, text)}
	}
}

// Refresh re-reads the session snapshot and rebuilds the transcript.
// Unless the user scrolled away, the view stays pinned to the newest
// message.
func (v *View) Refresh() {
	snap := v.session.Snapshot()
	v.lines = v.wrapTranscript(snap)
	if !v.pinned {
		v.scrollOffset = v.maxScrollOffset()
	} else if v.scrollOffset > v.maxScrollOffset() {
		v.scrollOffset = v.maxScrollOffset()
	}
}

// wrapTranscript formats the transcript into display lines.
func (v *View) wrapTranscript(snap driving.SessionSnapshot) []string {
	var lines []string
	for i := range snap.Transcript {
		m := &snap.Transcript[i]
		label := v.styles.ModelLabel.Render("Assistant")
		if m.Role == domain.RoleUser {
			label = v.styles.UserLabel.Render("You")
		}
		lines = append(lines, label)
		lines = append(lines, wrap(m.Text, v.textWidth())...)
		lines = append(lines, "")
	}
	return lines
}

// wrap splits text into lines no wider than width, breaking on spaces.
func wrap(text string, width int) []string {
	if width < 10 {
		width = 10
	}

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(raw) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// View renders the chat view.
func (v *View) View() string {
	snap := v.session.Snapshot()

	var b strings.Builder

	title := "Chat"
	if snap.Active != nil {
		title = snap.Active.Record.Filename
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch snap.State {
	case domain.StateNoActiveDocument:
		b.WriteString(v.styles.Muted.Render("No document open."))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[ctrl+d] documents  [ctrl+u] upload  [ctrl+c] quit"))
		return b.String()

	case domain.StateUploading:
		b.WriteString(v.styles.Muted.Render("Uploading..."))
		return b.String()

	case domain.StateActivatingIndex:
		b.WriteString(v.styles.Muted.Render("Preparing document..."))
		return b.String()

	case domain.StateRestoring:
		b.WriteString(v.styles.Muted.Render("Restoring session..."))
		return b.String()
	}

	b.WriteString(v.renderTranscript())
	b.WriteString("\n")

	if snap.AwaitingAnswer {
		b.WriteString(v.styles.Muted.Render("Thinking..."))
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	}

	b.WriteString(v.chatIn.View())
	return b.String()
}

// renderTranscript renders the visible transcript window.
func (v *View) renderTranscript() string {
	if len(v.lines) == 0 {
		return v.styles.Muted.Render("Start the conversation.") + "\n"
	}

	start := v.scrollOffset
	if start > v.maxScrollOffset() {
		start = v.maxScrollOffset()
	}
	end := start + v.visibleLines()
	if end > len(v.lines) {
		end = len(v.lines)
	}

	return strings.Join(v.lines[start:end], "\n") + "\n"
}

// visibleLines returns how many transcript lines fit on screen.
func (v *View) visibleLines() int {
	// Title, input, status hints and padding take the rest.
	visible := v.height - 8
	if visible < 4 {
		visible = 4
	}
	return visible
}

// maxScrollOffset returns the largest valid scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		return 0
	}
	return maxOffset
}

// textWidth returns the wrap width for message text.
func (v *View) textWidth() int {
	return v.width - 4
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.chatIn.SetWidth(width)
	v.Refresh()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Input returns the typed, unsent message text.
func (v *View) Input() string {
	return v.chatIn.Value()
}

// ScrollOffset returns the current scroll offset.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
