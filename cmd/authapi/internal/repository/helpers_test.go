package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/bunx"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/migrations"
)

// setupTestDB opens a private in-memory SQLite database with the schema and
// default roles applied.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := bunx.NewDB(ctx, fmt.Sprintf("file:%s?mode=memory&cache=shared", name), bunx.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	return db
}

func newTestUser(email, document string) *models.User {
	return &models.User{
		FirstName:      "Ana",
		LastName:       "Gomez",
		Gender:         models.GenderFemale,
		DocumentType:   models.DocumentCitizenID,
		DocumentNumber: document,
		Phone:          "3001234567",
		Email:          email,
		PasswordHash:   "$2a$04$abcdefghijklmnopqrstuu2pIVtyRPXfB6iCUpeSLkMNt.jaIIzSe",
	}
}
