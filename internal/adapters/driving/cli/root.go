// Package cli provides the docchat command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/auth"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// version is the CLI version, overridable at build time.
var version = "0.1.0"

// Services bound by the composition root once flags are parsed.
var (
	sessionService  driving.Session
	documentService driving.DocumentService
	sessionProvider *auth.FileSessionProvider
)

// initServices builds the service graph after flag parsing. The
// composition root installs it with OnInit; commands run it through
// PersistentPreRunE so flag values can shape construction.
var initServices func() error

// Persistent flags.
var (
	verbose   bool
	ephemeral bool
	baseURL   string
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents from the terminal",
	Long: `docchat uploads documents to a remote indexing service and lets you
hold persistent, per-document conversations about their content.

Run without arguments to open the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if initServices != nil {
			return initServices()
		}
		return nil
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep history and route state in memory only")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Index service base URL (overrides config)")
}

// Deps holds the services the commands need.
type Deps struct {
	Session         driving.Session
	Documents       driving.DocumentService
	SessionProvider *auth.FileSessionProvider
}

// OnInit installs the service builder invoked after flag parsing.
func OnInit(build func() error) {
	initServices = build
}

// Bind attaches the built services; called by the OnInit builder.
func Bind(deps Deps) {
	sessionService = deps.Session
	documentService = deps.Documents
	sessionProvider = deps.SessionProvider
}

// Ephemeral reports whether the --ephemeral flag was set.
func Ephemeral() bool {
	return ephemeral
}

// BaseURL returns the --base-url flag value.
func BaseURL() string {
	return baseURL
}

// Execute parses flags and runs the selected command.
func Execute() error {
	return rootCmd.Execute()
}

// requireSessionService guards commands that drive the conversation.
func requireSessionService() error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	return nil
}

// requireDocumentService guards commands that manage the history.
func requireDocumentService() error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	return nil
}
