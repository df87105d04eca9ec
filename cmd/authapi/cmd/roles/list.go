package roles

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle(cmd.Context())
		if err != nil {
			return err
		}
		defer bundle.Close()

		rows := pterm.TableData{{"NAME", "AUTHORITY", "DESCRIPTION", "CREATED_AT"}}
		for page := (iam.PageRequest{Size: pageSizeFlag}); ; page.Number++ {
			result, err := bundle.Service.ListRoles(cmd.Context(), page)
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}
			for _, role := range result.Items {
				rows = append(rows, []string{
					role.Name,
					role.Authority(),
					role.Description,
					role.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}
			if page.Number+1 >= result.TotalPages() {
				break
			}
		}

		if len(rows) == 1 {
			pterm.Info.Println("No roles defined")
			return nil
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}
