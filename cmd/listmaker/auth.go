package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"listmaker/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage channel credentials",
	Long: `Manage the credentials the websocket channel accepts.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (LISTMAKER_CHANNEL_USER / LISTMAKER_CHANNEL_PASSWORD)`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store channel credentials securely",
	Example: `  # Interactive login
  listmaker auth login

  # Login with username
  listmaker auth login myusername`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored channel credentials",
	Long:  `Show stored channel credentials with the password masked.`,
	RunE:  runStatus,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [username]",
	Short: "Remove stored channel credentials",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	creds := &auth.Credentials{Username: username, Password: password}
	if err := manager.Store(creds); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Printf("Credentials stored for %s\n", username)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	all, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No channel credentials stored.")
		return nil
	}

	for _, creds := range all {
		sanitized := auth.Sanitize(creds)
		fmt.Printf("%s  password: %s  modified: %s\n",
			sanitized.Username, sanitized.Password,
			sanitized.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		all, err := manager.List()
		if err != nil || len(all) == 0 {
			return fmt.Errorf("no stored credentials to remove")
		}
		username = all[0].Username
	}

	if err := manager.Delete(username); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}

	fmt.Printf("Credentials removed for %s\n", username)
	return nil
}

// readPassword prompts without echo when attached to a terminal
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		data, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
