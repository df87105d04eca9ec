package role

import (
	"fmt"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

var roleDescription string

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := config.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		role, err := client.CreateRole(cmd.Context(), args[0], roleDescription)
		if err != nil {
			if sdk.HasStatus(err, http.StatusConflict) {
				return fmt.Errorf("role %q already exists", args[0])
			}
			return fmt.Errorf("failed to create role: %w", err)
		}

		pterm.Success.Printf("Created role %s (%s)\n", role.Name, role.Authority())
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Change a role's description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := config.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		role, err := client.UpdateRole(cmd.Context(), args[0], roleDescription)
		if err != nil {
			if sdk.IsNotFound(err) {
				return fmt.Errorf("role %q not found", args[0])
			}
			return fmt.Errorf("failed to update role: %w", err)
		}

		pterm.Success.Printf("Updated role %s\n", role.Name)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&roleDescription, "description", "", "Role description")
	updateCmd.Flags().StringVar(&roleDescription, "description", "", "Role description")
	_ = updateCmd.MarkFlagRequired("description")
}
