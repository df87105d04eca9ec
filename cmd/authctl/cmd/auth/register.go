package auth

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

var (
	registerInput sdk.RegisterInput
	registerStdin bool
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long: `Registers a user through the public registration endpoint.

The server creates --role if no role with that name exists yet, so a typo
in the role name yields a new role rather than an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if registerInput.Password == "" {
			p, err := readPassword(registerStdin, cfg.NonInteractive)
			if err != nil {
				return err
			}
			registerInput.Password = p
		}

		user, err := cfg.ClientProvider.Public().Register(cmd.Context(), registerInput)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		pterm.Success.Printf("Registered %s (%s)\n", user.Email, user.ID)
		pterm.Info.Printf("Roles: %s\n", strings.Join(user.RoleNames(), ", "))
		return nil
	},
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registerInput.Email, "email", "", "Account email")
	f.StringVar(&registerInput.FirstName, "first-name", "", "First name(s)")
	f.StringVar(&registerInput.LastName, "last-name", "", "Last name(s)")
	f.StringVar(&registerInput.Gender, "gender", "OTRO", "Gender: MASCULINO, FEMENINO or OTRO")
	f.StringVar(&registerInput.DocumentType, "document-type", "CEDULA", "Document type: CEDULA, PASAPORTE, CEDULA_EXTRANJERIA or TARJETA_IDENTIDAD")
	f.StringVar(&registerInput.DocumentNumber, "document", "", "Identity document number")
	f.StringVar(&registerInput.Phone, "phone", "", "Phone number")
	f.StringVar(&registerInput.Role, "role", "", "Role name")
	f.StringVar(&registerInput.Password, "password", "", "Account password (prefer --stdin or the prompt)")
	f.BoolVar(&registerStdin, "stdin", false, "Read password from stdin")

	for _, name := range []string{"email", "first-name", "last-name", "document", "phone", "role"} {
		_ = registerCmd.MarkFlagRequired(name)
	}
}
