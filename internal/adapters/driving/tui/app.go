package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/components/status"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/keymap"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/views/chat"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/views/documents"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/views/upload"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// statusBar is shown at the bottom of every view.
	statusBar *status.Bar

	// chatView is the conversation view.
	chatView *chat.View

	// documentsView is the document history view.
	documentsView *documents.View

	// uploadView is the upload prompt view.
	uploadView *upload.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		statusBar:     status.NewBar(s, km),
		chatView:      chat.NewView(s, ports.Session),
		documentsView: documents.NewView(s, ports.Session, ports.Documents),
		uploadView:    upload.NewView(s, ports.Session),
		currentView:   messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.uploadView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docchat"),
		a.chatView.Init(),
		a.waitForSession(),
	)
}

// waitForSession bridges the orchestrator's event channel into the
// Bubbletea message loop. Each delivery re-arms the wait.
func (a *App) waitForSession() tea.Cmd {
	events := a.ports.Session.Events()
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return messages.SessionClosed{}
		}
		return messages.SessionUpdated{}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.statusBar.SetWidth(msg.Width)
		a.chatView.SetDimensions(msg.Width, msg.Height-1)
		a.documentsView.SetDimensions(msg.Width, msg.Height-1)
		a.uploadView.SetDimensions(msg.Width, msg.Height-1)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.SessionUpdated:
		a.syncStatus()
		a.chatView, cmd = a.chatView.Update(msg)
		// Re-arm the event wait.
		return a, tea.Batch(cmd, a.waitForSession())

	case messages.SessionClosed:
		return a, tea.Quit

	case messages.ViewChanged:
		return a.switchView(msg.View)

	case messages.DocumentOpened:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		return a.switchView(messages.ViewChat)

	case messages.UploadStarted:
		a.uploadView, cmd = a.uploadView.Update(msg)
		if msg.Err == nil {
			// The chat view shows upload progress from here on.
			var switchCmd tea.Cmd
			var model tea.Model
			model, switchCmd = a.switchView(messages.ViewChat)
			return model, tea.Batch(cmd, switchCmd)
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to the active view.
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewHelp:
		// The help view is static.
	}

	return a, cmd
}

// handleKeyMsg routes key presses.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Global bindings first.
	switch {
	case keymap.Matches(msg.String(), a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(msg.String(), a.keymap.Documents):
		return a.switchView(messages.ViewDocuments)

	case keymap.Matches(msg.String(), a.keymap.Upload):
		return a.switchView(messages.ViewUpload)

	case keymap.Matches(msg.String(), a.keymap.Help):
		return a.switchView(messages.ViewHelp)

	case keymap.Matches(msg.String(), a.keymap.NewConversation):
		a.ports.Session.NewConversation()
		a.syncStatus()
		return a.switchView(messages.ViewChat)
	}

	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ViewDocuments:
		if msg.String() == "esc" {
			return a.switchView(messages.ViewChat)
		}
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ViewUpload:
		if msg.String() == "esc" {
			return a.switchView(messages.ViewDocuments)
		}
		a.uploadView, cmd = a.uploadView.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		if msg.String() == "esc" {
			return a.switchView(messages.ViewChat)
		}
		return a, nil
	}

	return a, nil
}

// switchView changes the active view and runs its initialisation.
func (a *App) switchView(view messages.ViewType) (tea.Model, tea.Cmd) {
	a.currentView = view
	a.statusBar.Clear()
	a.syncStatus()

	switch view {
	case messages.ViewChat:
		return a, a.chatView.Init()
	case messages.ViewDocuments:
		return a, a.documentsView.Init()
	case messages.ViewUpload:
		a.uploadView.Reset()
		return a, a.uploadView.Init()
	case messages.ViewHelp:
		return a, nil
	}
	return a, nil
}

// syncStatus refreshes the status bar from the session snapshot.
func (a *App) syncStatus() {
	snap := a.ports.Session.Snapshot()
	a.statusBar.SetState(snap.State)
	if snap.Active != nil {
		a.statusBar.SetDocument(snap.Active.Record.Filename)
	} else {
		a.statusBar.SetDocument("")
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewDocuments:
		body = a.documentsView.View()
	case messages.ViewUpload:
		body = a.uploadView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.chatView.View()
	}

	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Chat:
  (type)      Compose a message
  enter       Send
  ↑/↓         Scroll the transcript
  ctrl+n      New conversation

Documents:
  j/k, ↑/↓    Navigate
  enter       Open a document
  x           Delete a document
  r           Refresh

Global:
  ctrl+d      Documents
  ctrl+u      Upload
  ctrl+g      Help
  esc         Back
  ctrl+c      Quit

[esc] back to chat`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	a.chatView.SetDimensions(width, height-1)
	a.documentsView.SetDimensions(width, height-1)
	a.uploadView.SetDimensions(width, height-1)
}
