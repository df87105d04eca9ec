package roles

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a role",
	Long:  `Creates a role. The name is upper-cased and a leading ROLE_ is stripped.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle(cmd.Context())
		if err != nil {
			return err
		}
		defer bundle.Close()

		role, err := bundle.Service.CreateRole(cmd.Context(), args[0], descriptionFlag)
		if err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}

		pterm.Success.Printfln("Created role %s (%s)", role.Name, role.Authority())
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a role and its assignments",
	Long: `Deletes a role and removes it from every user. Tokens already issued keep
the authority until they expire but no longer satisfy role checks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle(cmd.Context())
		if err != nil {
			return err
		}
		defer bundle.Close()

		if err := bundle.Service.DeleteRole(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}

		pterm.Success.Printfln("Deleted role %s", args[0])
		return nil
	},
}
