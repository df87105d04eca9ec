package user

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

var getCmd = &cobra.Command{
	Use:   "get <document-type> <document-number>",
	Short: "Show a user by identity document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := config.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		u, err := client.GetUser(cmd.Context(), strings.ToUpper(args[0]), args[1])
		if err != nil {
			if sdk.IsNotFound(err) {
				return fmt.Errorf("no user with document %s %s", args[0], args[1])
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		pterm.DefaultSection.Println(u.Email)
		fmt.Printf("ID:        %s\n", u.ID)
		fmt.Printf("Name:      %s %s\n", u.FirstName, u.LastName)
		fmt.Printf("Gender:    %s\n", u.Gender)
		fmt.Printf("Document:  %s %s\n", u.DocumentType, u.DocumentNumber)
		fmt.Printf("Phone:     %s\n", u.Phone)
		fmt.Printf("Roles:     %s\n", strings.Join(u.RoleNames(), ", "))
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the caller's subject and authorities",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := config.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		me, err := client.Me(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read current principal: %w", err)
		}

		fmt.Printf("Subject:     %s\n", me.Subject)
		fmt.Printf("Authorities: %s\n", strings.Join(me.Authorities, ", "))
		if !me.ExpiresAt.IsZero() {
			fmt.Printf("Token until: %s\n", me.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}
