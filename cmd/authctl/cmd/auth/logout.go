package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored login",
	Long: `Deletes the stored token pair. Tokens are not revoked on the server; they
stay valid until they expire.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.MustFromContext(cmd.Context()).ClientProvider.Store()
		if err != nil {
			return fmt.Errorf("failed to create credential store: %w", err)
		}

		if err := store.DeleteCredentials(); err != nil {
			return fmt.Errorf("failed to delete credentials: %w", err)
		}

		pterm.Success.Println("Logged out")
		return nil
	},
}
