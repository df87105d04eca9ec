package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
)

// Gender values accepted for a user.
const (
	GenderMale   = "MASCULINO"
	GenderFemale = "FEMENINO"
	GenderOther  = "OTRO"
)

// Document types accepted for a user.
const (
	DocumentCitizenID = "CEDULA"
	DocumentPassport  = "PASAPORTE"
	DocumentForeignID = "CEDULA_EXTRANJERIA"
	DocumentMinorID   = "TARJETA_IDENTIDAD"
)

// Role is a named role. Role names are stored upper case and are unique.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID          string    `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull,unique"`
	Description string    `bun:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// Authority returns the granted authority carried in tokens for this role.
func (r Role) Authority() string {
	return auth.RoleAuthority(r.Name)
}

// NormalizeRoleName upper-cases and trims a role name and strips a ROLE_ prefix.
func NormalizeRoleName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	if role, ok := auth.RoleFromAuthority(n); ok {
		return role
	}
	return n
}

// User is a locally registered principal. Email is the login identifier.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             string    `bun:"id,pk,type:uuid"`
	FirstName      string    `bun:"first_name,notnull"`
	LastName       string    `bun:"last_name,notnull"`
	Gender         string    `bun:"gender,notnull"`
	DocumentType   string    `bun:"document_type,notnull"`
	DocumentNumber string    `bun:"document_number,notnull,unique"`
	Phone          string    `bun:"phone"`
	Email          string    `bun:"email,notnull,unique"`
	PasswordHash   string    `bun:"password_hash,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`

	Roles []Role `bun:"m2m:user_roles,join:User=Role"`
}

// Authorities returns the ROLE_-prefixed authorities for the user's roles.
func (u *User) Authorities() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return auth.RoleAuthorities(names)
}

// UserRole joins users and roles. Rows cascade when either side is deleted.
type UserRole struct {
	bun.BaseModel `bun:"table:user_roles,alias:ur"`

	UserID string `bun:"user_id,pk,type:uuid"`
	User   *User  `bun:"rel:belongs-to,join:user_id=id"`
	RoleID string `bun:"role_id,pk,type:uuid"`
	Role   *Role  `bun:"rel:belongs-to,join:role_id=id"`
}

// Register registers the join model so bun can resolve m2m relations.
// Must be called before any query touching User.Roles.
func Register(db *bun.DB) {
	db.RegisterModel((*UserRole)(nil))
}
