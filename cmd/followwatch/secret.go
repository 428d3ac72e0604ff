package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"followwatch/pkg/secret"
	"followwatch/pkg/ui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// secretCmd represents the secret command
var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the stored SMTP password",
	Long: `Store the SMTP password outside the configuration file.

Passwords are kept in:
  - The system keychain (when available)
  - An encrypted file with PBKDF2 key derivation otherwise

FOLLOWWATCH_SMTP_PASSWORD takes precedence over both.`,
}

var secretSetCmd = &cobra.Command{
	Use:     "set <smtp-username>",
	Short:   "Store the SMTP password for an account",
	Example: `  followwatch secret set bot@gmail.com`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSecretSet,
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <smtp-username>",
	Short: "Remove the stored SMTP password for an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecretDelete,
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretDeleteCmd)
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	manager, err := secret.NewManager("")
	if err != nil {
		return fmt.Errorf("failed to initialize secret store: %w", err)
	}

	fmt.Fprint(ui.Output, "SMTP password: ")
	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return errors.New("password is empty")
	}

	if err := manager.Set(args[0], password); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	ui.PrintSuccess("Password stored for " + args[0])
	return nil
}

func runSecretDelete(cmd *cobra.Command, args []string) error {
	manager, err := secret.NewManager("")
	if err != nil {
		return fmt.Errorf("failed to initialize secret store: %w", err)
	}

	if err := manager.Delete(args[0]); err != nil {
		if errors.Is(err, secret.ErrNotFound) {
			ui.PrintWarning("No password stored for " + args[0])
			return nil
		}
		return fmt.Errorf("failed to delete password: %w", err)
	}
	ui.PrintSuccess("Password removed for " + args[0])
	return nil
}

// readPassword reads a password from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(ui.Output)
		if err == nil {
			return string(password), nil
		}
	}

	// Piped input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
