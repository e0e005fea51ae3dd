package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your account data",
}

var accountClearDataCmd = &cobra.Command{
	Use:   "clear-data",
	Short: "Remove all uploaded documents and conversations",
	Long:  `Removes every uploaded document and conversation, remotely and locally. The account itself is kept.`,
	RunE:  runAccountClearData,
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account and all its data",
	RunE:  runAccountDelete,
}

// accountYes skips the confirmation prompt.
var accountYes bool

func init() {
	accountClearDataCmd.Flags().BoolVarP(&accountYes, "yes", "y", false, "Skip confirmation")
	accountDeleteCmd.Flags().BoolVarP(&accountYes, "yes", "y", false, "Skip confirmation")
	accountCmd.AddCommand(accountClearDataCmd)
	accountCmd.AddCommand(accountDeleteCmd)
	rootCmd.AddCommand(accountCmd)
}

// confirm asks the user to type y before a destructive operation.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	if accountYes {
		return true, nil
	}

	cmd.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func runAccountClearData(cmd *cobra.Command, _ []string) error {
	if err := requireDocumentService(); err != nil {
		return err
	}

	ok, err := confirm(cmd, "Remove ALL documents and conversations?")
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("Aborted.")
		return nil
	}

	if err := documentService.ClearData(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}

	cmd.Println("All documents and conversations removed.")
	return nil
}

func runAccountDelete(cmd *cobra.Command, _ []string) error {
	if err := requireDocumentService(); err != nil {
		return err
	}

	ok, err := confirm(cmd, "Delete your account and ALL its data?")
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("Aborted.")
		return nil
	}

	if err := documentService.DeleteAccount(cmd.Context()); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if sessionProvider != nil {
		if err := sessionProvider.Logout(); err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
	}

	cmd.Println("Account deleted.")
	return nil
}
