package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		pterm.DefaultSection.Println("Authentication Status")
		pterm.Info.Printf("Server: %s\n", cfg.ServerURL)

		if creds, err := cfg.ClientProvider.Credentials(); err == nil {
			pterm.Info.Printf("Stored login: %s\n", creds.Subject)
			pterm.Info.Printf("Access token expires: %s\n", creds.ExpiresAt.Local().Format(time.RFC1123))
			if !creds.RefreshExpiresAt.IsZero() {
				pterm.Info.Printf("Refresh token expires: %s\n", creds.RefreshExpiresAt.Local().Format(time.RFC1123))
			}
		}

		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		me, err := client.Me(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read current principal: %w", err)
		}

		pterm.DefaultSection.Println("Principal")
		pterm.Info.Printf("Subject: %s\n", me.Subject)
		pterm.Info.Printf("Authorities: %s\n", strings.Join(me.Authorities, ", "))
		return nil
	},
}
