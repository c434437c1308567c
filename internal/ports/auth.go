package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

// Credentials carries an email/password login attempt.
type Credentials struct {
	Email    string
	Password string
}

// CredentialVerifier checks an email/password pair against the account store
// and returns the matching identity. Failures surface as structured login
// errors (invalid credentials, account suspended, email not verified).
type CredentialVerifier interface {
	Verify(ctx context.Context, creds Credentials) (domainauth.Identity, error)
}

// RegisterInput carries inputs for creating a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserRegistrar creates accounts in the account store.
type UserRegistrar interface {
	Register(ctx context.Context, in RegisterInput) (domainauth.Identity, error)
}

// UserRepository reads and administers account records.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (domainauth.User, error)
	GetByEmail(ctx context.Context, email string) (domainauth.User, error)
	List(ctx context.Context) ([]domainauth.User, error)
	SetRole(ctx context.Context, id string, role domainauth.Role) error
}

// BeginInput carries inputs for initiating an SSO auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
// Used by the SSO login mode; the password mode goes through
// CredentialVerifier instead.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
