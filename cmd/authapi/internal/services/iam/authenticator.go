package iam

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
)

// Authenticator extracts and validates request credentials.
//
// Return values:
//   - (principal, nil): credentials present and valid
//   - (nil, nil): no credentials present (anonymous request)
//   - (nil, error): credentials present but invalid
type Authenticator interface {
	Authenticate(ctx context.Context, req AuthRequest) (*auth.Principal, error)
}

// AuthRequest wraps the request data authenticators read.
type AuthRequest struct {
	Headers http.Header
}

// BearerAuthenticator validates "Authorization: Bearer <token>" access tokens.
// It performs no I/O and is safe for concurrent use.
type BearerAuthenticator struct {
	tokens *auth.TokenCodec
}

func NewBearerAuthenticator(tokens *auth.TokenCodec) *BearerAuthenticator {
	return &BearerAuthenticator{tokens: tokens}
}

func (a *BearerAuthenticator) Authenticate(_ context.Context, req AuthRequest) (*auth.Principal, error) {
	token, present := BearerToken(req.Headers)
	if !present {
		return nil, nil
	}
	if token == "" {
		return nil, fmt.Errorf("%w: empty bearer token", auth.ErrTokenMalformed)
	}

	claims, err := a.tokens.Parse(token, auth.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return auth.PrincipalFromClaims(claims), nil
}

// BearerToken returns the bearer credential from the Authorization header.
// present is false when the header is absent or uses another scheme.
func BearerToken(h http.Header) (token string, present bool) {
	value := strings.TrimSpace(h.Get("Authorization"))
	if value == "" {
		return "", false
	}
	scheme, rest, _ := strings.Cut(value, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
