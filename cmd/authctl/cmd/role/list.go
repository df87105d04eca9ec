package role

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

var (
	listPage     int
	listPageSize int
	listAll      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := config.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		var roles []sdk.Role
		footer := ""
		if listAll {
			roles, err = client.ListAllRoles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}
		} else {
			page, err := client.ListRoles(cmd.Context(), sdk.PageOptions{PageNo: listPage, PageSize: listPageSize})
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}
			roles = page.Content
			footer = fmt.Sprintf("Page %d of %d (%d roles)", page.PageNo+1, max(page.TotalPages, 1), page.TotalElements)
		}

		if len(roles) == 0 {
			pterm.Info.Println("No roles found")
			return nil
		}

		data := pterm.TableData{{"NAME", "AUTHORITY", "DESCRIPTION"}}
		for _, r := range roles {
			data = append(data, []string{r.Name, r.Authority(), r.Description})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		if footer != "" {
			pterm.Info.Println(footer)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 0, "Zero-based page number")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Page size (server default when 0)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Fetch every page")
}
