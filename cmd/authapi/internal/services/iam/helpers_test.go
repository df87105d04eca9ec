package iam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"golang.org/x/crypto/bcrypt"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/bunx"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/migrations"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/repository"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testEnv struct {
	db       *bun.DB
	svc      Service
	tokens   *auth.TokenCodec
	registry *RoleRegistry
	users    *repository.BunUserRepository
	roles    *repository.BunRoleRepository
	now      time.Time
}

type envConfig struct {
	options      IAMServiceOptions
	roleCacheTTL time.Duration
	dsn          string
}

type envOption func(*envConfig)

func withAdminRegistration(allowed bool) envOption {
	return func(c *envConfig) { c.options.AllowAdminRegistration = allowed }
}

func withRoleCache(ttl time.Duration) envOption {
	return func(c *envConfig) { c.roleCacheTTL = ttl }
}

// withFileDB backs the environment with an on-disk SQLite database
// instead of a shared in-memory one.
func withFileDB(t *testing.T) envOption {
	return func(c *envConfig) { c.dsn = filepath.Join(t.TempDir(), "iam.db") }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	ctx := context.Background()

	cfg := envConfig{options: IAMServiceOptions{AdminRole: "ADMINISTRADOR", AllowAdminRegistration: true}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.dsn == "" {
		name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
		cfg.dsn = fmt.Sprintf("file:iam_%s?mode=memory&cache=shared", name)
	}

	db, err := bunx.NewDB(ctx, cfg.dsn, bunx.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	env := &testEnv{
		db:    db,
		users: repository.NewBunUserRepository(db),
		roles: repository.NewBunRoleRepository(db),
		now:   time.Now(),
	}

	env.tokens, err = auth.NewTokenCodec(testSecret,
		auth.WithAccessTTL(15*time.Minute),
		auth.WithRefreshTTL(24*time.Hour),
		auth.WithClock(func() time.Time { return env.now }),
	)
	require.NoError(t, err)

	env.registry = NewRoleRegistry(env.roles, cfg.roleCacheTTL)

	env.svc, err = NewIAMService(IAMServiceDependencies{
		Users:    env.users,
		Roles:    env.roles,
		Tx:       repository.NewBunTransactor(db),
		Hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
		Tokens:   env.tokens,
		Registry: env.registry,
	}, cfg.options)
	require.NoError(t, err)

	return env
}

func registration(email, document, role string) RegisterInput {
	return RegisterInput{
		FirstName:      "Juan Carlos",
		LastName:       "Ramirez Torres",
		Gender:         "masculino",
		DocumentType:   "CEDULA",
		DocumentNumber: document,
		Phone:          "987654321",
		Email:          email,
		Password:       "secret",
		Role:           role,
	}
}

func (e *testEnv) register(t *testing.T, email, document, role string) {
	t.Helper()
	_, err := e.svc.Register(context.Background(), registration(email, document, role))
	require.NoError(t, err)
}
