package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/cmd/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/cmd/role"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/cmd/user"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/client"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
)

var (
	serverURL      string
	nonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "authctl",
	Short: "Client for the authentication and user management API",
	Long: `authctl logs in against an authapi server, keeps the token pair in
~/.authctl/credentials.json and manages roles and users through the REST API.

Set AUTHCTL_TOKEN to use a bearer token without logging in.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("AUTHCTL_NON_INTERACTIVE") == "1" {
			nonInteractive = true
		}
		if !cmd.Flags().Changed("server") {
			if env := os.Getenv("AUTHCTL_SERVER"); env != "" {
				serverURL = env
			}
		}

		provider := client.NewProvider(serverURL)
		if token := os.Getenv("AUTHCTL_TOKEN"); token != "" {
			provider.SetBearerToken(token)
		}

		cmd.SetContext(config.InjectConfig(cmd.Context(), &config.GlobalConfig{
			ServerURL:      serverURL,
			NonInteractive: nonInteractive,
			ClientProvider: provider,
		}))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "API server URL (also set via AUTHCTL_SERVER)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts (also set via AUTHCTL_NON_INTERACTIVE=1)")
	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(role.RoleCmd)
	rootCmd.AddCommand(user.UserCmd)
}
