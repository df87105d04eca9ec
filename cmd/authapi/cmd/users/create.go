package users

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/cmd/cmdutil"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
)

var (
	in        iam.RegisterInput
	stdinFlag bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user with one role",
	Long: `Creates a user through the same path as public registration. The
administrator role is always allowed here, regardless of
auth.allow_admin_registration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stdinFlag {
			// Read password from stdin
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				in.Password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}

		if in.Password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}
		if in.FirstName == "" {
			in.FirstName, _, _ = strings.Cut(in.Email, "@")
		}
		if in.LastName == "" {
			in.LastName = "-"
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		bundle, err := cmdutil.NewIAMServiceBundle(cmd.Context(), cfg, cmdutil.IAMServiceOptions{Logger: slog.Default()})
		if err != nil {
			return err
		}
		defer bundle.Close()

		user, err := bundle.Service.CreateUser(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		roleNames := make([]string, len(user.Roles))
		for i, role := range user.Roles {
			roleNames[i] = role.Name
		}

		fmt.Println("User created successfully!")
		fmt.Println("----------------------------------------")
		fmt.Printf("User ID: %s\n", user.ID)
		fmt.Printf("Email: %s\n", user.Email)
		fmt.Printf("Document: %s %s\n", user.DocumentType, user.DocumentNumber)
		fmt.Printf("Roles: %s\n", strings.Join(roleNames, ", "))
		fmt.Println("----------------------------------------")

		return nil
	},
}
