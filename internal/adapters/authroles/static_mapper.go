// Package authroles maps identity-provider group claims onto dashboard roles.
package authroles

import (
	"strings"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

// StaticRoleMapper grants admin to members of any configured group and user
// to everyone else. SSO identities have already authenticated, so there is no
// guest outcome here.
type StaticRoleMapper struct {
	AdminGroups []string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		for _, admin := range m.AdminGroups {
			if admin != "" && strings.EqualFold(g, admin) {
				return domainauth.RoleAdmin
			}
		}
	}
	return domainauth.RoleUser
}
