package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20250601000001, down_20250601000001)
}

// up_20250601000001 creates the roles, users and user_roles tables
func up_20250601000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating roles table...")
	_, err := db.NewCreateTable().
		Model((*models.Role)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create roles table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating users table...")
	_, err = db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_users_document ON users(document_type, document_number)`)
	if err != nil {
		return fmt.Errorf("failed to create users document index: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating user_roles table...")
	_, err = db.NewCreateTable().
		Model((*models.UserRole)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		ForeignKey(`("role_id") REFERENCES "roles" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user_roles table: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_user_roles_role_id ON user_roles(role_id)`)
	if err != nil {
		return fmt.Errorf("failed to create user_roles role index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20250601000001 drops the auth tables in dependency order
func down_20250601000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping auth tables...")
	for _, model := range []any{
		(*models.UserRole)(nil),
		(*models.User)(nil),
		(*models.Role)(nil),
	} {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	fmt.Println(" OK")
	return nil
}
