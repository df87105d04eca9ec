package auth

import "errors"

// Token validation failures. Each is distinct so callers can log the kind;
// the request filter treats all of them as "not authenticated".
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenNotYetValid      = errors.New("token not yet valid")
	ErrTokenInvalidIssuer    = errors.New("token issuer invalid")
	ErrTokenTypeMismatch     = errors.New("token type mismatch")
)

// ErrMalformedHash means a stored password hash cannot be interpreted.
// It indicates corrupt data or misconfiguration, never a wrong password.
var ErrMalformedHash = errors.New("malformed password hash")
