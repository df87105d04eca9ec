package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/bunx"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20250601000002, down_20250601000002)
}

// DefaultRoles are seeded on first migration. The first is the administrator role.
var DefaultRoles = []models.Role{
	{Name: "ADMINISTRADOR", Description: "Administrador del sistema"},
	{Name: "ESTANDAR", Description: "Usuario estandar"},
	{Name: "INVITADO", Description: "Usuario invitado"},
}

// up_20250601000002 seeds the default roles
func up_20250601000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] seeding default roles...")

	now := time.Now().UTC()
	for _, seed := range DefaultRoles {
		role := seed
		role.ID = bunx.NewUUIDv7()
		role.CreatedAt = now
		role.UpdatedAt = now

		_, err := db.NewInsert().
			Model(&role).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.Name, err)
		}
	}
	fmt.Println(" OK")
	return nil
}

// down_20250601000002 removes seeded roles that no user holds
func down_20250601000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] removing default roles...")
	names := make([]string, 0, len(DefaultRoles))
	for _, r := range DefaultRoles {
		names = append(names, r.Name)
	}

	_, err := db.NewDelete().
		Model((*models.Role)(nil)).
		Where("name IN (?)", bun.In(names)).
		Where("NOT EXISTS (SELECT 1 FROM user_roles ur WHERE ur.role_id = r.id)").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove default roles: %w", err)
	}
	fmt.Println(" OK")
	return nil
}
