package roles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/cmd/cmdutil"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/config"
)

var (
	descriptionFlag string
	pageSizeFlag    int
)

// RolesCmd is the parent command for role registry operations
var RolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Manage the role registry",
	Long: `Commands for managing roles directly against the database. A running
server with auth.role_cache_ttl > 0 picks up changes after the TTL or on SIGHUP.`,
}

func init() {
	listCmd.Flags().IntVar(&pageSizeFlag, "page-size", 100, "Roles fetched per page")
	createCmd.Flags().StringVar(&descriptionFlag, "description", "", "Role description")

	RolesCmd.AddCommand(listCmd)
	RolesCmd.AddCommand(createCmd)
	RolesCmd.AddCommand(deleteCmd)
}

func openBundle(ctx context.Context) (*cmdutil.IAMServiceBundle, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cmdutil.NewIAMServiceBundle(ctx, cfg, cmdutil.IAMServiceOptions{Logger: slog.Default()})
}
