package iam

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.svc.Register(ctx, registration("Ana@X.com", "1001", "estandar"))
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ana@x.com", user.Email)
	assert.Equal(t, "MASCULINO", user.Gender)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, "ESTANDAR", user.Roles[0].Name)
	assert.Equal(t, []string{"ROLE_ESTANDAR"}, user.Authorities())

	assert.NotEqual(t, "secret", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
}

func TestRegister_UnknownRoleIsCreatedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "1", "admin")
	env.register(t, "b@x.com", "2", "ADMIN")

	names, err := env.roles.Names(ctx)
	require.NoError(t, err)
	count := 0
	for _, n := range names {
		if n == "ADMIN" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	a, err := env.svc.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	b, err := env.svc.GetUserByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, a.Roles[0].ID, b.Roles[0].ID)
}

func TestRegister_ConcurrentUnknownRole(t *testing.T) {
	env := newTestEnv(t, withFileDB(t), withRoleCache(time.Hour))
	ctx := context.Background()
	const n = 8

	// Warm the cache so every registration has to invalidate it.
	_, err := env.registry.RoleNames(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = env.svc.Register(ctx, registration(fmt.Sprintf("u%d@x.com", i), fmt.Sprintf("%d", 5000+i), "revisor"))
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "registration %d", i)
	}

	names, err := env.roles.Names(ctx)
	require.NoError(t, err)
	count := 0
	for _, name := range names {
		if name == "REVISOR" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	var roleID string
	for i := 0; i < n; i++ {
		user, err := env.svc.GetUserByEmail(ctx, fmt.Sprintf("u%d@x.com", i))
		require.NoError(t, err)
		require.Len(t, user.Roles, 1)
		if roleID == "" {
			roleID = user.Roles[0].ID
		}
		assert.Equal(t, roleID, user.Roles[0].ID)
	}

	known, err := env.registry.RoleNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, known, "REVISOR")
}

func TestRegister_InvalidatesRegistryOnImplicitRole(t *testing.T) {
	env := newTestEnv(t, withRoleCache(time.Hour))
	ctx := context.Background()

	before, err := env.registry.RoleNames(ctx)
	require.NoError(t, err)
	assert.NotContains(t, before, "AUDITOR")

	env.register(t, "a@x.com", "1", "auditor")

	assert.False(t, env.registry.Cached())
	after, err := env.registry.RoleNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, after, "AUDITOR")
}

func TestRegister_Duplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "a@x.com", "1", "ESTANDAR")

	t.Run("same email", func(t *testing.T) {
		_, err := env.svc.Register(ctx, registration("A@X.COM", "2", "ESTANDAR"))
		require.ErrorIs(t, err, ErrDuplicatePrincipal)
	})

	t.Run("same document rolls back the implicit role", func(t *testing.T) {
		_, err := env.svc.Register(ctx, registration("b@x.com", "1", "NUEVO"))
		require.ErrorIs(t, err, ErrDuplicatePrincipal)

		names, err := env.roles.Names(ctx)
		require.NoError(t, err)
		assert.NotContains(t, names, "NUEVO")

		_, err = env.svc.GetUserByEmail(ctx, "b@x.com")
		require.ErrorIs(t, err, ErrPrincipalNotFound)
	})
}

func TestRegister_AdminRole(t *testing.T) {
	ctx := context.Background()

	t.Run("self-registration disabled", func(t *testing.T) {
		env := newTestEnv(t, withAdminRegistration(false))

		_, err := env.svc.Register(ctx, registration("a@x.com", "1", "administrador"))
		require.ErrorIs(t, err, ErrForbidden)

		user, err := env.svc.CreateUser(ctx, registration("a@x.com", "1", "administrador"))
		require.NoError(t, err)
		assert.Equal(t, []string{"ROLE_ADMINISTRADOR"}, user.Authorities())
	})

	t.Run("self-registration allowed", func(t *testing.T) {
		env := newTestEnv(t, withAdminRegistration(true))

		user, err := env.svc.Register(ctx, registration("a@x.com", "1", "ROLE_ADMINISTRADOR"))
		require.NoError(t, err)
		assert.Equal(t, []string{"ROLE_ADMINISTRADOR"}, user.Authorities())
	})
}

func TestRegister_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing first name", func(in *RegisterInput) { in.FirstName = " " }},
		{"unknown gender", func(in *RegisterInput) { in.Gender = "X" }},
		{"unknown document type", func(in *RegisterInput) { in.DocumentType = "DNI" }},
		{"missing document number", func(in *RegisterInput) { in.DocumentNumber = "" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"password too long", func(in *RegisterInput) { in.Password = string(make([]byte, 73)) }},
		{"missing role", func(in *RegisterInput) { in.Role = "ROLE_" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registration("a@x.com", "1", "ESTANDAR")
			tt.mutate(&in)
			_, err := env.svc.Register(ctx, in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := env.svc.GetUserByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestRegister_ThenAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "a@x.com", "1", "USER")

	pair, err := env.svc.Authenticate(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	claims, err := env.tokens.Parse(pair.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_USER"}, claims.Authorities)
}
