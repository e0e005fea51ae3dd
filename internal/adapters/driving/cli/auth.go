package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login [user-id]",
	Short: "Sign in and store credentials",
	Long: `Sign in with your user id and an access token issued by the service.

The token is read from the --token flag or prompted for without echo.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove stored credentials",
	RunE:  runLogout,
}

// Login flags.
var (
	loginToken        string
	loginTokenExpSecs int
)

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Access token (prompted when omitted)")
	loginCmd.Flags().IntVar(&loginTokenExpSecs, "expires-in", 0, "Token lifetime in seconds (0 = no expiry)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if sessionProvider == nil {
		return errors.New("session provider not configured")
	}

	userID := args[0]
	token := loginToken
	if token == "" {
		cmd.Print("Access token: ")
		token = readSecret()
		cmd.Println()
	}
	if token == "" {
		return errors.New("an access token is required")
	}

	var expiry time.Time
	if loginTokenExpSecs > 0 {
		expiry = time.Now().Add(time.Duration(loginTokenExpSecs) * time.Second)
	}

	if err := sessionProvider.Login(userID, &oauth2.Token{
		AccessToken: token,
		Expiry:      expiry,
	}); err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	cmd.Printf("Signed in as %s.\n", userID)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if sessionProvider == nil {
		return errors.New("session provider not configured")
	}

	if err := sessionProvider.Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}

	cmd.Println("Signed out.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	// Read without echo where the terminal allows it
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
