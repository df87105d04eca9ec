package iam

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
)

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "a@x.com", "1", "USER")

	t.Run("valid credentials issue a pair", func(t *testing.T) {
		pair, err := env.svc.Authenticate(ctx, "a@x.com", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
		assert.True(t, pair.AccessExpiresAt.Before(pair.RefreshExpiresAt))

		claims, err := env.tokens.Parse(pair.AccessToken, auth.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Subject)
		assert.Equal(t, []string{"ROLE_USER"}, claims.Authorities)
	})

	t.Run("identifier is case-insensitive", func(t *testing.T) {
		_, err := env.svc.Authenticate(ctx, "  A@X.COM ", "secret")
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.svc.Authenticate(ctx, "a@x.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		assert.NotErrorIs(t, err, ErrPrincipalNotFound)
	})

	t.Run("unknown principal", func(t *testing.T) {
		_, err := env.svc.Authenticate(ctx, "nobody@x.com", "secret")
		require.ErrorIs(t, err, ErrPrincipalNotFound)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticate_MalformedStoredHash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "a@x.com", "1", "USER")

	_, err := env.db.NewUpdate().Table("users").
		Set("password_hash = ?", "plaintext-password").
		Where("email = ?", "a@x.com").
		Exec(ctx)
	require.NoError(t, err)

	_, err = env.svc.Authenticate(ctx, "a@x.com", "plaintext-password")
	require.ErrorIs(t, err, auth.ErrMalformedHash)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "a@x.com", "1", "ESTANDAR")

	pair, err := env.svc.Authenticate(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	t.Run("refresh reflects current roles", func(t *testing.T) {
		user, err := env.users.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		guest, err := env.roles.GetByName(ctx, "INVITADO")
		require.NoError(t, err)
		require.NoError(t, env.users.AssignRoles(ctx, user.ID, guest.ID))

		env.now = env.now.Add(time.Hour)
		renewed, err := env.svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := env.tokens.Parse(renewed.AccessToken, auth.TokenTypeAccess)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"ROLE_ESTANDAR", "ROLE_INVITADO"}, claims.Authorities)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		fresh, err := env.svc.Authenticate(ctx, "a@x.com", "secret")
		require.NoError(t, err)
		_, err = env.svc.Refresh(ctx, fresh.AccessToken)
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.ErrorIs(t, err, auth.ErrTokenTypeMismatch)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		env.now = env.now.Add(48 * time.Hour)
		_, err := env.svc.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("deleted principal", func(t *testing.T) {
		fresh, err := env.svc.Authenticate(ctx, "a@x.com", "secret")
		require.NoError(t, err)
		require.NoError(t, env.svc.DeleteUserByDocument(ctx, "CEDULA", "1"))

		_, err = env.svc.Refresh(ctx, fresh.RefreshToken)
		require.ErrorIs(t, err, ErrPrincipalNotFound)
	})
}
