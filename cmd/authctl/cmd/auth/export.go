package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

// tokenEnvVar is read by authctl itself and is convenient for curl:
//
//	curl -H "Authorization: Bearer $AUTHCTL_TOKEN" ...
const tokenEnvVar = "AUTHCTL_TOKEN"

var (
	shellFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the access token as a shell variable",
	Long: `Prints a shell command that sets AUTHCTL_TOKEN to a valid access token,
renewing the stored login first when the access token has expired.

Supported shells:
  - posix (bash, zsh, sh) - default
  - fish
  - powershell

Usage:
  # POSIX shells (bash/zsh/sh)
  eval $(authctl auth export)

  # Fish shell
  eval (authctl auth export --shell fish)

  # PowerShell
  authctl auth export --shell powershell | Invoke-Expression`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&shellFormat, "shell", "", "Shell format: posix, fish, powershell (auto-detected if not specified)")
}

func runExport(cmd *cobra.Command, args []string) error {
	provider := config.MustFromContext(cmd.Context()).ClientProvider

	creds, err := provider.Credentials()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	store, err := provider.Store()
	if err != nil {
		return err
	}

	token, err := currentToken(sdk.NewTokenSource(cmd.Context(), provider.Public(), store, creds))
	if err != nil {
		return fmt.Errorf("%w\n\nPlease run 'authctl auth login'", err)
	}

	// Auto-detect shell if not specified
	if shellFormat == "" {
		shellFormat = detectShell()
	}

	switch strings.ToLower(shellFormat) {
	case "posix", "bash", "zsh", "sh":
		printPosixExport(token)
	case "fish":
		printFishExport(token)
	case "powershell", "pwsh", "ps1":
		printPowerShellExport(token)
	default:
		return fmt.Errorf("unsupported shell format: %s\n\nSupported formats: posix, fish, powershell", shellFormat)
	}

	return nil
}

func currentToken(source oauth2.TokenSource) (string, error) {
	tok, err := source.Token()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// detectShell attempts to detect the current shell from the SHELL environment variable
func detectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		// Default to POSIX if we can't detect
		return "posix"
	}

	// Extract the shell name from the path
	shellName := filepath.Base(shell)

	switch shellName {
	case "fish":
		return "fish"
	case "pwsh", "powershell":
		return "powershell"
	default:
		// Default to POSIX for bash, zsh, sh, and unknown shells
		return "posix"
	}
}

// printPosixExport outputs export commands for POSIX-compatible shells (bash, zsh, sh)
func printPosixExport(accessToken string) {
	// Only print instructions if stdout is a TTY (interactive mode, not being piped/eval'd)
	if isTerminal(os.Stdout) {
		fmt.Fprintln(os.Stderr, "# Run this command to export the access token:")
		fmt.Fprintln(os.Stderr, "#   eval $(authctl auth export)")
		fmt.Fprintln(os.Stderr, "")
	}
	// Print actual export commands to stdout for eval to process
	fmt.Printf("export %s=%q\n", tokenEnvVar, accessToken)
}

// printFishExport outputs set commands for Fish shell
func printFishExport(accessToken string) {
	// Only print instructions if stdout is a TTY (interactive mode, not being piped/eval'd)
	if isTerminal(os.Stdout) {
		fmt.Fprintln(os.Stderr, "# Run this command to export the access token:")
		fmt.Fprintln(os.Stderr, "#   eval (authctl auth export --shell fish)")
		fmt.Fprintln(os.Stderr, "")
	}
	// Print actual set commands to stdout for eval to process
	fmt.Printf("set -x %s %q\n", tokenEnvVar, accessToken)
}

// printPowerShellExport outputs environment variable commands for PowerShell
func printPowerShellExport(accessToken string) {
	// Only print instructions if stdout is a TTY (interactive mode, not being piped/eval'd)
	if isTerminal(os.Stdout) {
		fmt.Fprintln(os.Stderr, "# Run this command to export the access token:")
		fmt.Fprintln(os.Stderr, "#   authctl auth export --shell powershell | Invoke-Expression")
		fmt.Fprintln(os.Stderr, "")
	}
	// Print actual PowerShell commands to stdout for Invoke-Expression to process
	fmt.Printf("$env:%s=%q\n", tokenEnvVar, accessToken)
}

// isTerminal checks if the given file is a terminal (TTY)
func isTerminal(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	// Check if the file mode indicates it's a character device (terminal)
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
