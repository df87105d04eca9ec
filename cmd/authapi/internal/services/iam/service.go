package iam

import (
	"context"
	"math"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
)

// Service provides all identity and access management operations used by
// the HTTP handlers and the operator CLI.
type Service interface {
	// =========================================================================
	// Authentication
	// =========================================================================

	// Authenticate verifies an email/password pair and issues a token pair.
	// Read-only and safe to retry.
	//
	// Returns ErrPrincipalNotFound or ErrInvalidCredentials on failure; callers
	// facing clients must not distinguish the two.
	Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error)

	// Refresh exchanges a refresh token for a new pair. The principal is
	// re-read so the new tokens carry its current roles.
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)

	// =========================================================================
	// Registration
	// =========================================================================

	// Register creates a user through the public registration endpoint.
	//
	// An unknown role name is created on the fly with no description. The
	// role insert and the user insert commit or roll back together.
	// Registering with the administrator role fails with ErrForbidden unless
	// allowed by configuration.
	Register(ctx context.Context, in RegisterInput) (*models.User, error)

	// CreateUser is Register for trusted operators: the administrator role
	// is always allowed.
	CreateUser(ctx context.Context, in RegisterInput) (*models.User, error)

	// =========================================================================
	// User Management
	// =========================================================================

	ListUsers(ctx context.Context, page PageRequest) (*Page[models.User], error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByDocument(ctx context.Context, documentType, documentNumber string) (*models.User, error)

	// UpdateUser rewrites the profile of the user with in.Email and re-hashes
	// the password. Role assignments are unchanged.
	UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error)

	DeleteUserByDocument(ctx context.Context, documentType, documentNumber string) error

	// =========================================================================
	// Role Management (mutations invalidate the role registry cache)
	// =========================================================================

	ListRoles(ctx context.Context, page PageRequest) (*Page[models.Role], error)
	CreateRole(ctx context.Context, name, description string) (*models.Role, error)
	UpdateRole(ctx context.Context, name, description string) (*models.Role, error)
	DeleteRole(ctx context.Context, name string) error
}

// RegisterInput carries a registration request. Role is a role name,
// matched case-insensitively.
type RegisterInput struct {
	FirstName      string
	LastName       string
	Gender         string
	DocumentType   string
	DocumentNumber string
	Phone          string
	Email          string
	Password       string
	Role           string
}

// UpdateUserInput carries a profile update. Email selects the user.
type UpdateUserInput struct {
	FirstName      string
	LastName       string
	Gender         string
	DocumentType   string
	DocumentNumber string
	Phone          string
	Email          string
	Password       string
}

// Pagination bounds. MaxPageNumber keeps Number*Size inside int.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPageNumber   = math.MaxInt / MaxPageSize
)

// PageRequest selects a zero-based page.
type PageRequest struct {
	Number int
	Size   int
}

// Validate checks 0 ≤ Number ≤ MaxPageNumber and 1 ≤ Size ≤ MaxPageSize.
func (p PageRequest) Validate() error {
	if p.Number < 0 {
		return invalidInput("pageNo must be >= 0")
	}
	if p.Number > MaxPageNumber {
		return invalidInput("pageNo must be <= %d", MaxPageNumber)
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		return invalidInput("pageSize must be between 1 and %d", MaxPageSize)
	}
	return nil
}

// Page is one page of a list result.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int
}

// TotalPages is the number of pages of Size needed for TotalItems.
func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.TotalItems + p.Size - 1) / p.Size
}
