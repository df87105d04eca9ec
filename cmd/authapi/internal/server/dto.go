package server

import (
	"time"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
)

// Request bodies. Field names follow the public API contract.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userRequest struct {
	FirstName      string `json:"nombres"`
	LastName       string `json:"apellidos"`
	Gender         string `json:"genero"`
	DocumentType   string `json:"tipoDocumento"`
	DocumentNumber string `json:"numeroDocumento"`
	Phone          string `json:"telefono"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"tipoRol,omitempty"`
}

func (u userRequest) registerInput() iam.RegisterInput {
	return iam.RegisterInput{
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Gender:         u.Gender,
		DocumentType:   u.DocumentType,
		DocumentNumber: u.DocumentNumber,
		Phone:          u.Phone,
		Email:          u.Email,
		Password:       u.Password,
		Role:           u.Role,
	}
}

func (u userRequest) updateInput() iam.UpdateUserInput {
	return iam.UpdateUserInput{
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Gender:         u.Gender,
		DocumentType:   u.DocumentType,
		DocumentNumber: u.DocumentNumber,
		Phone:          u.Phone,
		Email:          u.Email,
		Password:       u.Password,
	}
}

type roleRequest struct {
	Name        string `json:"rol"`
	Description string `json:"rolDescripcion"`
}

// Response bodies.

type tokenResponse struct {
	Token                 string    `json:"token"`
	RefreshToken          string    `json:"refreshToken"`
	TokenType             string    `json:"tokenType"`
	TokenExpiresAt        time.Time `json:"tokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

func newTokenResponse(p *auth.TokenPair) tokenResponse {
	return tokenResponse{
		Token:                 p.AccessToken,
		RefreshToken:          p.RefreshToken,
		TokenType:             "Bearer",
		TokenExpiresAt:        p.AccessExpiresAt.UTC(),
		RefreshTokenExpiresAt: p.RefreshExpiresAt.UTC(),
	}
}

type roleDTO struct {
	ID          string `json:"id"`
	Name        string `json:"tipoRol"`
	Description string `json:"descripcion"`
}

func newRoleDTO(r models.Role) roleDTO {
	return roleDTO{ID: r.ID, Name: r.Name, Description: r.Description}
}

type userDTO struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"nombres"`
	LastName       string    `json:"apellidos"`
	Gender         string    `json:"genero"`
	DocumentType   string    `json:"tipoDocumento"`
	DocumentNumber string    `json:"numeroDocumento"`
	Email          string    `json:"email"`
	Phone          string    `json:"telefono"`
	Roles          []roleDTO `json:"roles"`
}

func newUserDTO(u *models.User) userDTO {
	roles := make([]roleDTO, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, newRoleDTO(r))
	}
	return userDTO{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Gender:         u.Gender,
		DocumentType:   u.DocumentType,
		DocumentNumber: u.DocumentNumber,
		Email:          u.Email,
		Phone:          u.Phone,
		Roles:          roles,
	}
}

type pageDTO[T any] struct {
	Content       []T `json:"content"`
	PageNo        int `json:"pageNo"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

func newPageDTO[M, T any](p *iam.Page[M], convert func(*M) T) pageDTO[T] {
	content := make([]T, 0, len(p.Items))
	for i := range p.Items {
		content = append(content, convert(&p.Items[i]))
	}
	return pageDTO[T]{
		Content:       content,
		PageNo:        p.Number,
		PageSize:      p.Size,
		TotalElements: p.TotalItems,
		TotalPages:    p.TotalPages(),
	}
}

type principalDTO struct {
	Subject     string    `json:"subject"`
	Authorities []string  `json:"authorities"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
