package auth

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

var (
	loginEmail    string
	loginPassword string
	loginStdin    bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long: `Exchanges an email and password for an access and refresh token pair and
stores them. Later commands renew the access token with the refresh token
until the refresh token expires.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if loginEmail == "" {
			if cfg.NonInteractive {
				return fmt.Errorf("--email is required")
			}
			email, err := pterm.DefaultInteractiveTextInput.Show("Email")
			if err != nil {
				return err
			}
			loginEmail = email
		}

		password := loginPassword
		if password == "" {
			p, err := readPassword(loginStdin, cfg.NonInteractive)
			if err != nil {
				return err
			}
			password = p
		}

		pair, err := cfg.ClientProvider.Public().Login(cmd.Context(), loginEmail, password)
		if err != nil {
			if sdk.IsUnauthorized(err) {
				return fmt.Errorf("login failed: invalid email or password")
			}
			return fmt.Errorf("login failed: %w", err)
		}

		store, err := cfg.ClientProvider.Store()
		if err != nil {
			return fmt.Errorf("failed to create credential store: %w", err)
		}
		creds := sdk.NewCredentials(pair, loginEmail)
		if err := store.SaveCredentials(creds); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}

		pterm.Success.Printf("Logged in as %s\n", creds.Subject)
		pterm.Info.Printf("Access token expires at %s\n", creds.ExpiresAt.Local().Format(time.RFC1123))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prefer --stdin or the prompt)")
	loginCmd.Flags().BoolVar(&loginStdin, "stdin", false, "Read password from stdin")
}
