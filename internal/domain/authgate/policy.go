// Package authgate implements the access-policy decision layer that guards
// protected pages: a pure state machine over session state, the post-login
// redirect resolver, an observable session store, and a route gate that turns
// policy decisions into single-fire deferred navigation.
package authgate

import (
	"net/url"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

// PolicyState is the access-policy state for a protected page.
type PolicyState string

const (
	StateLoading         PolicyState = "loading"
	StateUnauthenticated PolicyState = "unauthenticated"
	StateNoAccess        PolicyState = "no_access"
	StateAllowed         PolicyState = "allowed"
)

// Well-known navigation targets used by policy decisions.
const (
	LoginPath         = "/login"
	HomePath          = "/"
	AdminPath         = "/admin"
	RedirectParamName = "redirect"
)

// State is a snapshot of the observed session state.
type State struct {
	// User is nil when no account is signed in. When set it is always in
	// canonical (normalized) role form.
	User          *domainauth.User
	Authenticated bool
	Loading       bool
}

// HasAdminAccess recomputes admin capability from the current user.
// Never cached so a logout/login as a different account cannot go stale.
func (s State) HasAdminAccess() bool {
	if s.User == nil {
		return false
	}
	role, roles := domainauth.Normalize(s.User.Role, s.User.Roles)
	return domainauth.HasAdminAccess(role, roles)
}

// Decision is the outcome of evaluating the access policy for one page.
type Decision struct {
	State PolicyState

	// NavigateTo is the navigation the policy wants performed, empty when
	// the page should stay put. The gate fires it on a deferred task.
	NavigateTo string

	// RenderContent is true only when the protected content may render.
	RenderContent bool

	// ShowAccessDenied is true when an access-denied message should render
	// as the fallback while the NavigateTo side effect is pending.
	ShowAccessDenied bool
}

// Evaluate runs the access policy for a page at currentPath with the given
// admin requirement. It is a total function: it never fails and makes no
// decision while the initial session check is still loading.
func Evaluate(s State, requireAdmin bool, currentPath string) Decision {
	switch {
	case s.Loading:
		return Decision{State: StateLoading}
	case !s.Authenticated || s.User == nil:
		return Decision{
			State:      StateUnauthenticated,
			NavigateTo: LoginURL(currentPath),
		}
	case requireAdmin && !s.HasAdminAccess():
		return Decision{
			State:            StateNoAccess,
			NavigateTo:       HomePath,
			ShowAccessDenied: true,
		}
	default:
		return Decision{State: StateAllowed, RenderContent: true}
	}
}

// LoginURL builds the login path carrying currentPath as the redirect target.
// The root path and empty paths produce a bare login URL.
func LoginURL(currentPath string) string {
	if currentPath == "" || currentPath == HomePath {
		return LoginPath
	}
	return LoginPath + "?" + RedirectParamName + "=" + url.QueryEscape(currentPath)
}
