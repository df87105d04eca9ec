package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(t *testing.T, clock *fakeClock, opts ...TokenOption) *TokenCodec {
	t.Helper()
	opts = append([]TokenOption{
		WithClock(clock.Now),
		WithAccessTTL(15 * time.Minute),
		WithRefreshTTL(24 * time.Hour),
		WithIssuer("test-issuer"),
	}, opts...)
	codec, err := NewTokenCodec(testSecret, opts...)
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCodec([]byte("short"))
	require.Error(t, err)

	_, err = NewTokenCodec(testSecret, WithAccessTTL(time.Hour), WithRefreshTTL(time.Hour))
	require.Error(t, err)

	_, err = NewTokenCodec(testSecret, WithAccessTTL(0))
	require.Error(t, err)

	codec, err := NewTokenCodec(testSecret)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, codec.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, codec.RefreshTTL())
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	authorities := []string{"ROLE_ADMINISTRADOR", "ROLE_ESTANDAR"}
	token, exp, err := codec.IssueAccessToken("ana@example.com", authorities)
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(15*time.Minute), exp)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := codec.Parse(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, authorities, claims.Authorities)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenCodec_IssuePair(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	pair, err := codec.IssuePair("ana@example.com", []string{"ROLE_USER"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.AccessExpiresAt.Before(pair.RefreshExpiresAt))

	access, err := codec.Parse(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	refresh, err := codec.Parse(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, access.Subject, refresh.Subject)
	assert.NotEqual(t, access.ID, refresh.ID)

	_, err = codec.Parse(pair.RefreshToken, TokenTypeAccess)
	require.ErrorIs(t, err, ErrTokenTypeMismatch)
	_, err = codec.Parse(pair.AccessToken, TokenTypeRefresh)
	require.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestTokenCodec_Expiry(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	token, _, err := codec.IssueAccessToken("ana@example.com", []string{"ROLE_USER"})
	require.NoError(t, err)

	clock.Advance(15*time.Minute - time.Second)
	_, err = codec.Parse(token, TokenTypeAccess)
	require.NoError(t, err)

	// now == exp is already expired
	clock.Advance(time.Second)
	_, err = codec.Parse(token, TokenTypeAccess)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenCodec_NotYetValid(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	token, _, err := codec.IssueAccessToken("ana@example.com", nil)
	require.NoError(t, err)

	clock.Advance(-time.Minute)
	_, err = codec.Parse(token, TokenTypeAccess)
	require.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestTokenCodec_SignatureTamper(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	token, _, err := codec.IssueAccessToken("ana@example.com", []string{"ROLE_USER"})
	require.NoError(t, err)
	dot := strings.LastIndex(token, ".")
	head, sig := token[:dot+1], token[dot+1:]

	for i := range sig {
		for _, replacement := range []byte{'A', 'b', '!'} {
			if sig[i] == replacement {
				continue
			}
			tampered := head + sig[:i] + string(replacement) + sig[i+1:]
			_, err := codec.Parse(tampered, TokenTypeAccess)
			require.ErrorIs(t, err, ErrTokenSignatureInvalid, "position %d replacement %q", i, replacement)
		}
	}

	t.Run("tampered and expired reports signature", func(t *testing.T) {
		clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
		codec := newTestCodec(t, clock)
		token, _, err := codec.IssueAccessToken("ana@example.com", nil)
		require.NoError(t, err)
		clock.Advance(48 * time.Hour)

		mid := strings.LastIndex(token, ".") + 10
		swap := byte('A')
		if token[mid] == swap {
			swap = 'B'
		}
		tampered := token[:mid] + string(swap) + token[mid+1:]

		_, err = codec.Parse(tampered, TokenTypeAccess)
		require.ErrorIs(t, err, ErrTokenSignatureInvalid)
		assert.NotErrorIs(t, err, ErrTokenExpired)
	})
}

func TestTokenCodec_PayloadTamper(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	token, _, err := codec.IssueAccessToken("ana@example.com", []string{"ROLE_INVITADO"})
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	claims["authorities"] = []string{"ROLE_ADMINISTRADOR"}
	forged, err := json.Marshal(claims)
	require.NoError(t, err)

	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(forged) + "." + parts[2]
	_, err = codec.Parse(tampered, TokenTypeAccess)
	require.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenCodec_RejectsForeignTokens(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	claims := Claims{
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ana@example.com",
			Issuer:    "test-issuer",
			IssuedAt:  jwt.NewNumericDate(clock.t),
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Minute)),
		},
	}

	t.Run("other secret", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		_, err = codec.Parse(signed, TokenTypeAccess)
		require.ErrorIs(t, err, ErrTokenSignatureInvalid)
	})

	t.Run("alg none", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = codec.Parse(signed, TokenTypeAccess)
		require.ErrorIs(t, err, ErrTokenSignatureInvalid)
	})

	t.Run("HS512", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = codec.Parse(signed, TokenTypeAccess)
		require.ErrorIs(t, err, ErrTokenSignatureInvalid)
	})

	t.Run("other issuer", func(t *testing.T) {
		foreign := claims
		foreign.Issuer = "someone-else"
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, foreign).SignedString(testSecret)
		require.NoError(t, err)
		_, err = codec.Parse(signed, TokenTypeAccess)
		require.ErrorIs(t, err, ErrTokenInvalidIssuer)
	})

	t.Run("missing exp", func(t *testing.T) {
		noExp := claims
		noExp.ExpiresAt = nil
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString(testSecret)
		require.NoError(t, err)
		_, err = codec.Parse(signed, TokenTypeAccess)
		require.ErrorIs(t, err, ErrTokenMalformed)
	})
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, clock)

	for _, raw := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.???.sig", "eyJhbGciOiJIUzI1NiJ9.not-json.sig"} {
		_, err := codec.Parse(raw, TokenTypeAccess)
		require.ErrorIs(t, err, ErrTokenMalformed, "input %q", raw)
	}
}
