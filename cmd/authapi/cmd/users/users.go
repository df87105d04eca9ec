package users

import "github.com/spf13/cobra"

// UsersCmd is the parent command for user management operations
var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
	Long:  `Commands for managing users directly against the database, e.g. to bootstrap the first administrator.`,
}

func init() {
	f := createCmd.Flags()
	f.StringVar(&in.Email, "email", "", "Email address of the user (login identifier)")
	f.StringVar(&in.FirstName, "first-name", "", "First name(s)")
	f.StringVar(&in.LastName, "last-name", "", "Last name(s)")
	f.StringVar(&in.Gender, "gender", "OTRO", "Gender: MASCULINO, FEMENINO or OTRO")
	f.StringVar(&in.DocumentType, "document-type", "CEDULA", "Document type: CEDULA, PASAPORTE, CEDULA_EXTRANJERIA or TARJETA_IDENTIDAD")
	f.StringVar(&in.DocumentNumber, "document", "", "Identity document number")
	f.StringVar(&in.Phone, "phone", "", "Phone number")
	f.StringVar(&in.Password, "password", "", "Password for the user (use --stdin to avoid shell history)")
	f.StringVar(&in.Role, "role", "", "Role to assign; created if it does not exist (required)")
	f.BoolVar(&stdinFlag, "stdin", false, "Read password from stdin instead of --password flag")

	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("document")
	_ = createCmd.MarkFlagRequired("role")

	UsersCmd.AddCommand(createCmd)
}
