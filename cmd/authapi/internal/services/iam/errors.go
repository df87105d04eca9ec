package iam

import (
	"errors"
	"fmt"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/repository"
)

var (
	// ErrInvalidCredentials: the principal exists but the password does not match,
	// or a refresh token was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPrincipalNotFound: no user with the identifier.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrDuplicatePrincipal: email or identity document already registered.
	ErrDuplicatePrincipal = errors.New("principal already registered")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	ErrRoleNotFound  = errors.New("role not found")
	ErrDuplicateRole = errors.New("role already exists")

	// ErrStoreUnavailable: the backing store failed for a reason other than a
	// missing or conflicting row.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrInvalidInput = errors.New("invalid input")
)

// storeError wraps unexpected repository failures as ErrStoreUnavailable.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// mapUserError translates repository errors for user lookups and writes.
func mapUserError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrPrincipalNotFound)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s: %w", op, ErrDuplicatePrincipal)
	default:
		return storeError(op, err)
	}
}

// mapRoleError translates repository errors for role lookups and writes.
func mapRoleError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrRoleNotFound)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s: %w", op, ErrDuplicateRole)
	default:
		return storeError(op, err)
	}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
