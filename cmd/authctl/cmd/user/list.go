package user

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

var (
	listPage     int
	listPageSize int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := config.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		page, err := client.ListUsers(cmd.Context(), sdk.PageOptions{PageNo: listPage, PageSize: listPageSize})
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(page.Content) == 0 {
			pterm.Info.Println("No users found")
			return nil
		}

		data := pterm.TableData{{"EMAIL", "NAME", "DOCUMENT", "ROLES"}}
		for _, u := range page.Content {
			data = append(data, []string{
				u.Email,
				strings.TrimSpace(u.FirstName + " " + u.LastName),
				u.DocumentType + " " + u.DocumentNumber,
				strings.Join(u.RoleNames(), ", "),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		pterm.Info.Printf("Page %d of %d (%d users)\n", page.PageNo+1, max(page.TotalPages, 1), page.TotalElements)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 0, "Zero-based page number")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Page size (server default when 0)")
}
