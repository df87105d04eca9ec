package server

import (
	"context"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
)

// iamHandlerService defines the exact IAM methods used by server handlers.
type iamHandlerService interface {
	Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Register(ctx context.Context, in iam.RegisterInput) (*models.User, error)

	ListUsers(ctx context.Context, page iam.PageRequest) (*iam.Page[models.User], error)
	GetUserByDocument(ctx context.Context, documentType, documentNumber string) (*models.User, error)
	UpdateUser(ctx context.Context, in iam.UpdateUserInput) (*models.User, error)
	DeleteUserByDocument(ctx context.Context, documentType, documentNumber string) error

	ListRoles(ctx context.Context, page iam.PageRequest) (*iam.Page[models.Role], error)
	CreateRole(ctx context.Context, name, description string) (*models.Role, error)
	UpdateRole(ctx context.Context, name, description string) (*models.Role, error)
	DeleteRole(ctx context.Context, name string) error
}

// Compile-time assertion: iam.Service must implement iamHandlerService.
var _ iamHandlerService = (iam.Service)(nil)
