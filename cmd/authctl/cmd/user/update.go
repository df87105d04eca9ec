package user

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

var (
	updateInput    sdk.UpdateUserInput
	updatePassword bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace a user's profile and password",
	Long: `Replaces the profile of the user identified by --email. Every field is
sent, so pass the current values for fields that should not change. Roles
are not modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if updatePassword {
			if cfg.NonInteractive {
				pw, err := readLine()
				if err != nil {
					return err
				}
				updateInput.Password = pw
			} else {
				pw, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("New password")
				if err != nil {
					return err
				}
				updateInput.Password = pw
			}
		}
		if updateInput.Password == "" {
			return fmt.Errorf("a password is required; use --password-prompt")
		}

		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		u, err := client.UpdateUser(cmd.Context(), updateInput)
		if err != nil {
			if sdk.IsNotFound(err) {
				return fmt.Errorf("no user with email %s", updateInput.Email)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		pterm.Success.Printf("Updated %s (%s)\n", u.Email, strings.Join(u.RoleNames(), ", "))
		return nil
	},
}

func readLine() (string, error) {
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return line, nil
}

func init() {
	f := updateCmd.Flags()
	f.StringVar(&updateInput.Email, "email", "", "Email of the user to update")
	f.StringVar(&updateInput.FirstName, "first-name", "", "First name(s)")
	f.StringVar(&updateInput.LastName, "last-name", "", "Last name(s)")
	f.StringVar(&updateInput.Gender, "gender", "OTRO", "Gender: MASCULINO, FEMENINO or OTRO")
	f.StringVar(&updateInput.DocumentType, "document-type", "CEDULA", "Document type")
	f.StringVar(&updateInput.DocumentNumber, "document", "", "Identity document number")
	f.StringVar(&updateInput.Phone, "phone", "", "Phone number")
	f.BoolVar(&updatePassword, "password-prompt", false, "Prompt for the new password (reads stdin with --non-interactive)")

	for _, name := range []string{"email", "first-name", "last-name", "document", "phone"} {
		_ = updateCmd.MarkFlagRequired(name)
	}
}
