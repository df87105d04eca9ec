package user

import (
	"github.com/spf13/cobra"
)

// UserCmd is the parent command for user operations
var UserCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long: `Commands for reading and removing registered users. Reads require any
known role; updates and deletes require the administrator role.`,
}

func init() {
	UserCmd.AddCommand(listCmd)
	UserCmd.AddCommand(getCmd)
	UserCmd.AddCommand(meCmd)
	UserCmd.AddCommand(updateCmd)
	UserCmd.AddCommand(deleteCmd)
}
