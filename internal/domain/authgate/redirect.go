package authgate

import (
	"strings"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

// ResolveLoginRedirect decides where to send a user after login, given the
// requested redirect target (from the login page's query parameter, may be
// empty) and the user's canonical role.
//
// Admin-capable users land on the admin console unless they asked for a page
// already under it; everyone else gets the requested target unchanged. The
// resolver only suggests a destination; admin pages enforce access themselves
// through Evaluate, so a non-admin carrying an /admin target is redirected
// there and then denied.
//
// Both the fresh-login flow and the already-authenticated login-page visit
// must call this with the same inputs so the outcome does not depend on entry
// path.
func ResolveLoginRedirect(queryRedirect string, role domainauth.Role) string {
	requested := queryRedirect
	if requested == "" {
		requested = HomePath
	}
	if domainauth.IsAdminRole(role) {
		if strings.HasPrefix(requested, AdminPath) {
			return requested
		}
		return AdminPath
	}
	return requested
}
