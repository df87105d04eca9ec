package user

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <document-type> <document-number>",
	Short: "Delete a user by identity document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		docType := strings.ToUpper(args[0])

		if !deleteYes && !cfg.NonInteractive {
			ok, err := pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Delete user %s %s?", docType, args[1]))
			if err != nil {
				return err
			}
			if !ok {
				pterm.Info.Println("Aborted")
				return nil
			}
		}

		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.DeleteUser(cmd.Context(), docType, args[1]); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		pterm.Success.Printf("Deleted user %s %s\n", docType, args[1])
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
