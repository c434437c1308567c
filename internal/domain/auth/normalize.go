package auth

import "strings"

// DefaultRole is assumed when an account carries no role information at all.
const DefaultRole = RoleUser

// adminRoleVariants is the set of role spellings that grant admin capability.
// The backend has shipped several of these over time; all are honored.
var adminRoleVariants = map[Role]struct{}{
	"admin":         {},
	"administrator": {},
	"super_admin":   {},
	"superadmin":    {},
	"root":          {},
}

// AdminRoleVariants returns the admin role spellings in a stable order.
func AdminRoleVariants() []Role {
	return []Role{"admin", "administrator", "super_admin", "superadmin", "root"}
}

// IsAdminRole reports whether a single canonical role grants admin capability.
func IsAdminRole(r Role) bool {
	_, ok := adminRoleVariants[Role(strings.ToLower(string(r)))]
	return ok
}

// Normalize maps the raw role fields of an account record to their canonical
// form: every entry lowercased, blanks dropped, and the primary role falling
// back to the first list entry and then to DefaultRole. It is total and
// idempotent; unknown role names pass through unchanged.
func Normalize(rawRole string, rawRoles []string) (Role, []Role) {
	roles := make([]Role, 0, len(rawRoles))
	for _, r := range rawRoles {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		roles = append(roles, Role(r))
	}
	if len(roles) == 0 {
		roles = nil
	}

	primary := Role(strings.ToLower(strings.TrimSpace(rawRole)))
	if primary == "" {
		if len(roles) > 0 {
			primary = roles[0]
		} else {
			primary = DefaultRole
		}
	}
	return primary, roles
}

// NormalizeUser returns a copy of u with both role fields canonicalized.
func NormalizeUser(u User) User {
	role, roles := Normalize(u.Role, u.Roles)
	u.Role = string(role)
	if roles == nil {
		u.Roles = nil
	} else {
		u.Roles = make([]string, len(roles))
		for i, r := range roles {
			u.Roles[i] = string(r)
		}
	}
	return u
}

// HasAdminAccess reports whether the primary role or any entry of the role
// list grants admin capability. Inputs are matched case-insensitively, so
// raw (un-normalized) values are still detected.
func HasAdminAccess(role Role, roles []Role) bool {
	if IsAdminRole(role) {
		return true
	}
	for _, r := range roles {
		if IsAdminRole(r) {
			return true
		}
	}
	return false
}
