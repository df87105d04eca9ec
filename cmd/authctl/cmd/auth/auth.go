package auth

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// AuthCmd is the parent command for auth operations
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Commands for logging in, registering and inspecting the current session.`,
}

func init() {
	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(statusCmd)
	AuthCmd.AddCommand(registerCmd)
	AuthCmd.AddCommand(exportCmd)
}

// readPassword returns the password from stdin when fromStdin is set, and
// otherwise prompts with masked input unless prompts are disabled.
func readPassword(fromStdin, nonInteractive bool) (string, error) {
	if fromStdin {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			return strings.TrimRight(scanner.Text(), "\r"), nil
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", fmt.Errorf("no password on stdin")
	}
	if nonInteractive {
		return "", fmt.Errorf("password is required (use --password or --stdin)")
	}
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
}
