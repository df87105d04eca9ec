package iam

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/repository"
)

// =============================================================================
// Users
// =============================================================================

func (s *iamService) ListUsers(ctx context.Context, page PageRequest) (*Page[models.User], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	users, total, err := s.users.List(ctx, repository.Page{Number: page.Number, Size: page.Size})
	if err != nil {
		return nil, storeError("list users", err)
	}
	return &Page[models.User]{Items: users, Number: page.Number, Size: page.Size, TotalItems: total}, nil
}

func (s *iamService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, mapUserError("get user", err)
	}
	return user, nil
}

func (s *iamService) GetUserByDocument(ctx context.Context, documentType, documentNumber string) (*models.User, error) {
	docType := strings.ToUpper(strings.TrimSpace(documentType))
	if !slices.Contains(documentTypes, docType) {
		return nil, invalidInput("tipoDocumento must be one of %s", strings.Join(documentTypes, ", "))
	}
	user, err := s.users.GetByDocument(ctx, docType, strings.TrimSpace(documentNumber))
	if err != nil {
		return nil, mapUserError("get user by document", err)
	}
	return user, nil
}

func (s *iamService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	p := profile{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Gender:         in.Gender,
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		Phone:          in.Phone,
		Email:          in.Email,
		Password:       in.Password,
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, invalidInput("%v", err)
	}

	u := &models.User{}
	p.apply(u, hash)
	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, mapUserError("update user", err)
	}

	s.logger.InfoContext(ctx, "user updated", "subject", p.Email)
	return s.GetUserByEmail(ctx, p.Email)
}

func (s *iamService) DeleteUserByDocument(ctx context.Context, documentType, documentNumber string) error {
	user, err := s.GetUserByDocument(ctx, documentType, documentNumber)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return mapUserError("delete user", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "subject", user.Email)
	return nil
}

// =============================================================================
// Roles
// =============================================================================

func (s *iamService) ListRoles(ctx context.Context, page PageRequest) (*Page[models.Role], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	roles, total, err := s.roles.List(ctx, repository.Page{Number: page.Number, Size: page.Size})
	if err != nil {
		return nil, storeError("list roles", err)
	}
	return &Page[models.Role]{Items: roles, Number: page.Number, Size: page.Size, TotalItems: total}, nil
}

func (s *iamService) CreateRole(ctx context.Context, name, description string) (*models.Role, error) {
	role := &models.Role{
		Name:        models.NormalizeRoleName(name),
		Description: strings.TrimSpace(description),
	}
	if role.Name == "" {
		return nil, invalidInput("rol is required")
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, mapRoleError(fmt.Sprintf("create role %s", role.Name), err)
	}
	s.registry.Invalidate()
	s.logger.InfoContext(ctx, "role created", "role", role.Name)
	return role, nil
}

func (s *iamService) UpdateRole(ctx context.Context, name, description string) (*models.Role, error) {
	roleName := models.NormalizeRoleName(name)
	if roleName == "" {
		return nil, invalidInput("rol is required")
	}

	role, err := s.roles.UpdateDescription(ctx, roleName, strings.TrimSpace(description))
	if err != nil {
		return nil, mapRoleError(fmt.Sprintf("update role %s", roleName), err)
	}
	s.registry.Invalidate()
	s.logger.InfoContext(ctx, "role updated", "role", roleName)
	return role, nil
}

// DeleteRole removes a role and its assignments. Tokens already issued keep
// the authority until they expire, but it stops matching "any known role".
func (s *iamService) DeleteRole(ctx context.Context, name string) error {
	roleName := models.NormalizeRoleName(name)
	if roleName == "" {
		return invalidInput("rol is required")
	}
	if roleName == s.adminRole {
		return fmt.Errorf("delete role: %w: the administrator role cannot be deleted", ErrForbidden)
	}

	if err := s.roles.DeleteByName(ctx, roleName); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("delete role %s: %w", roleName, ErrRoleNotFound)
		}
		return storeError("delete role", err)
	}
	s.registry.Invalidate()
	s.logger.InfoContext(ctx, "role deleted", "role", roleName)
	return nil
}
