package repository

import (
	"context"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
)

// Page selects a zero-based page of a list query.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before the page starts.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// RoleRepository is the Role Store. Names are matched exactly; callers normalize.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id string) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)

	// EnsureByName returns the role with name, inserting it first when absent.
	// created reports whether this call inserted the row. Concurrent callers
	// converge on the single row guarded by the unique name constraint.
	EnsureByName(ctx context.Context, name, description string) (role *models.Role, created bool, err error)

	UpdateDescription(ctx context.Context, name, description string) (*models.Role, error)
	DeleteByName(ctx context.Context, name string) error
	List(ctx context.Context, page Page) ([]models.Role, int, error)

	// Names returns every role name, unordered.
	Names(ctx context.Context) ([]string, error)
}

// UserRepository is the Credential Store. Reads load the user's roles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	AssignRoles(ctx context.Context, userID string, roleIDs ...string) error

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByDocument(ctx context.Context, documentType, documentNumber string) (*models.User, error)

	// UpdateProfile rewrites profile columns and the password hash of the user
	// with user.Email. Role assignments are untouched.
	UpdateProfile(ctx context.Context, user *models.User) error

	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page Page) ([]models.User, int, error)
}

// Transactor runs fn with repositories bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, users UserRepository, roles RoleRepository) error) error
}
