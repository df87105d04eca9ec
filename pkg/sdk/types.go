package sdk

import (
	"net/url"
	"strconv"
	"time"
)

// TokenPair is the body returned by login and refresh.
type TokenPair struct {
	Token                 string    `json:"token"`
	RefreshToken          string    `json:"refreshToken"`
	TokenType             string    `json:"tokenType"`
	TokenExpiresAt        time.Time `json:"tokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// Role is one entry of the role registry.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"tipoRol"`
	Description string `json:"descripcion"`
}

// Authority returns the granted-authority string for the role.
func (r Role) Authority() string {
	return "ROLE_" + r.Name
}

// User is a registered principal with its profile and roles.
type User struct {
	ID             string `json:"id"`
	FirstName      string `json:"nombres"`
	LastName       string `json:"apellidos"`
	Gender         string `json:"genero"`
	DocumentType   string `json:"tipoDocumento"`
	DocumentNumber string `json:"numeroDocumento"`
	Email          string `json:"email"`
	Phone          string `json:"telefono"`
	Roles          []Role `json:"roles"`
}

// RoleNames returns the names of the user's roles in server order.
func (u User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}

// Principal is the caller as seen by the server for the current token.
type Principal struct {
	Subject     string    `json:"subject"`
	Authorities []string  `json:"authorities"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Content       []T `json:"content"`
	PageNo        int `json:"pageNo"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.PageNo+1 < p.TotalPages
}

// PageOptions selects a page. Zero values use the server defaults.
type PageOptions struct {
	PageNo   int
	PageSize int
}

func (o PageOptions) query() url.Values {
	q := url.Values{}
	if o.PageNo > 0 {
		q.Set("pageNo", strconv.Itoa(o.PageNo))
	}
	if o.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	return q
}

// RegisterInput is the registration payload. Role is created by the server
// when it does not exist yet.
type RegisterInput struct {
	FirstName      string `json:"nombres"`
	LastName       string `json:"apellidos"`
	Gender         string `json:"genero"`
	DocumentType   string `json:"tipoDocumento"`
	DocumentNumber string `json:"numeroDocumento"`
	Phone          string `json:"telefono"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"tipoRol"`
}

// UpdateUserInput replaces the profile of the user identified by Email.
type UpdateUserInput struct {
	FirstName      string `json:"nombres"`
	LastName       string `json:"apellidos"`
	Gender         string `json:"genero"`
	DocumentType   string `json:"tipoDocumento"`
	DocumentNumber string `json:"numeroDocumento"`
	Phone          string `json:"telefono"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

type roleInput struct {
	Name        string `json:"rol"`
	Description string `json:"rolDescripcion"`
}
