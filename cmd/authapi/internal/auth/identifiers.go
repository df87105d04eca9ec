package auth

import "strings"

// AuthorityPrefix marks a role-derived authority.
const AuthorityPrefix = "ROLE_"

// RoleAuthority creates the granted authority for a role name.
// Example: RoleAuthority("administrador") → "ROLE_ADMINISTRADOR"
func RoleAuthority(role string) string {
	return AuthorityPrefix + strings.ToUpper(strings.TrimSpace(role))
}

// RoleAuthorities maps role names to authorities, preserving order.
func RoleAuthorities(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleAuthority(r))
	}
	return out
}

// RoleFromAuthority strips the authority prefix.
// Example: RoleFromAuthority("ROLE_ESTANDAR") → "ESTANDAR"
func RoleFromAuthority(authority string) (string, bool) {
	return strings.CutPrefix(authority, AuthorityPrefix)
}
