package auth

import (
	"context"
	"slices"
	"time"
)

// Principal is the authenticated identity attached to one request.
// It is built from a validated access token and never outlives the request.
type Principal struct {
	// Subject is the login identifier (email).
	Subject string
	// Authorities are the ROLE_-prefixed grants carried by the token.
	Authorities []string
	// TokenID is the jti of the presenting token, for log correlation.
	TokenID string
	// ExpiresAt is the token expiry.
	ExpiresAt time.Time
}

// HasAuthority reports whether the principal holds authority exactly.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Authorities, authority)
}

// PrincipalFromClaims builds the request principal from validated claims.
func PrincipalFromClaims(claims *Claims) *Principal {
	p := &Principal{
		Subject:     claims.Subject,
		Authorities: append([]string(nil), claims.Authorities...),
		TokenID:     claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p
}

type principalContextKey struct{}

// SetUserContext stores the authenticated principal on the context for downstream consumers.
func SetUserContext(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// GetUserFromContext retrieves the authenticated principal from the context.
// Anonymous requests return (nil, false).
func GetUserFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}
