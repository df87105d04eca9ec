package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	ok, err := h.Verify("secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("Secret", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes are salted")
}

func TestBcryptHasher_CostFallback(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(99).Cost())
	assert.Equal(t, 10, NewBcryptHasher(10).Cost())
}

func TestBcryptHasher_RejectsBadInput(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("")
	require.Error(t, err)

	_, err = h.Hash(strings.Repeat("x", 73))
	require.Error(t, err)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"too short", "$2a$04$short"},
		{"plaintext stored", "this-is-not-a-bcrypt-hash-but-it-is-long-enough-to-parse-xxxxxx"},
		{"bad cost", "$2a$99$abcdefghijklmnopqrstuu2pIVtyRPXfB6iCUpeSLkMNt.jaIIzSe"},
		{"future version", "$3a$04$abcdefghijklmnopqrstuu2pIVtyRPXfB6iCUpeSLkMNt.jaIIzSe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify("secret", tt.hash)
			assert.False(t, ok)
			require.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}
