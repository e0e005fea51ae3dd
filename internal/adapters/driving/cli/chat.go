package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [document-id]",
	Short: "Open the interactive chat interface",
	Long: `Open the interactive chat interface.

With a document id, the conversation for that document opens directly.
Without one, the session resumes wherever it left off.

Controls:
  Enter    - Send message
  Ctrl+N   - New conversation
  ↑/↓      - Scroll transcript
  Esc/q    - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := requireSessionService(); err != nil {
		return err
	}

	// Panic recovery keeps a stack trace visible after the alt screen
	// is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := sessionService.Start(cmd.Context()); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	if len(args) == 1 {
		if err := sessionService.OpenDocument(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("opening document: %w", err)
		}
	}

	app, err := tui.NewApp(tui.Ports{
		Session:   sessionService,
		Documents: documentService,
	})
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	return nil
}
