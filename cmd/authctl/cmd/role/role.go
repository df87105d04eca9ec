package role

import (
	"github.com/spf13/cobra"
)

// RoleCmd is the parent command for role operations
var RoleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage the role registry",
	Long: `Commands for listing and changing roles. Listing requires any known role;
changes require the administrator role.`,
}

func init() {
	RoleCmd.AddCommand(listCmd)
	RoleCmd.AddCommand(createCmd)
	RoleCmd.AddCommand(updateCmd)
	RoleCmd.AddCommand(deleteCmd)
}
