package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
	"github.com/tradepro/ui-api/internal/domain/authgate"
	apperrors "github.com/tradepro/ui-api/internal/errors"
	"github.com/tradepro/ui-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
//
// Verifier and Registrar serve the password login mode; Provider and Roles
// serve the SSO mode. Either mode may be absent depending on configuration.
type AuthServiceOptions struct {
	Verifier  ports.CredentialVerifier
	Registrar ports.UserRegistrar
	Provider  ports.AuthProvider
	Roles     ports.RoleMapper
	Sessions  ports.SessionStore
	Users     ports.UserRepository
	Limiter   *LoginLimiter
	Metrics   metricsSink
}

// AuthService orchestrates login, sessions, and account administration.
type AuthService struct {
	verifier  ports.CredentialVerifier
	registrar ports.UserRegistrar
	provider  ports.AuthProvider
	roles     ports.RoleMapper
	sessions  ports.SessionStore
	users     ports.UserRepository
	limiter   *LoginLimiter
	metrics   metricsSink
}

// ErrSessionExpired is returned by GetSession when the session existed but
// its expiry has passed. The session is deleted before this is returned.
var ErrSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		verifier:  opts.Verifier,
		registrar: opts.Registrar,
		provider:  opts.Provider,
		roles:     opts.Roles,
		sessions:  opts.Sessions,
		users:     opts.Users,
		limiter:   opts.Limiter,
		metrics:   opts.Metrics,
	}
}

// LoginInput carries a password login attempt plus the redirect target the
// login page was asked to return to.
type LoginInput struct {
	Email    string
	Password string
	Redirect string
	ClientIP string
}

// LoginResult is a fresh session plus the resolved post-login destination.
type LoginResult struct {
	Session    domainauth.Session
	RedirectTo string
}

// Login authenticates an email/password pair, persists a session, and
// resolves where the client should navigate next. Attempts are throttled per
// account and client address; throttled attempts fail before the verifier
// runs so they cannot be used to probe passwords.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if s.verifier == nil {
		return nil, errors.New("password login is not configured")
	}

	if s.limiter != nil && !s.limiter.Allow(input.Email, input.ClientIP) {
		s.countLogin("rate_limited")
		return nil, apperrors.RateLimited()
	}

	identity, err := s.verifier.Verify(ctx, ports.Credentials{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		s.countLogin(string(apperrors.ClassifyAuthError(err).Code))
		return nil, err
	}

	session, err := s.createSession(ctx, identity, domainauth.Role(identity.Role), identity.Roles)
	if err != nil {
		s.countLogin("error")
		return nil, err
	}

	s.countLogin("success")
	return &LoginResult{
		Session:    session,
		RedirectTo: authgate.ResolveLoginRedirect(input.Redirect, effectiveRole(session)),
	}, nil
}

// Register creates a new account and immediately signs it in.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*LoginResult, error) {
	if s.registrar == nil {
		return nil, errors.New("registration is not configured")
	}

	identity, err := s.registrar.Register(ctx, input)
	if err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, identity, domainauth.Role(identity.Role), identity.Roles)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Session:    session,
		RedirectTo: authgate.ResolveLoginRedirect("", effectiveRole(session)),
	}, nil
}

// BeginLoginResult contains the result of beginning an SSO login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an SSO flow and returns the provider auth URL with
// state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("SSO login is not configured")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an SSO login flow.
type CompleteLoginInput struct {
	Code     string
	State    string
	Nonce    string
	Redirect string
}

// CompleteLogin exchanges the authorization code for an identity, maps
// provider groups to a role, and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*LoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("SSO login is not configured")
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		s.countLogin(string(apperrors.ClassifyAuthError(err).Code))
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	// Prefer the identity's own role claims; fall back to group mapping.
	rawRole := domainauth.Role(identity.Role)
	rawRoles := identity.Roles
	if rawRole == "" && len(rawRoles) == 0 && s.roles != nil {
		rawRole = s.roles.Map(identity.Groups)
	}

	session, err := s.createSession(ctx, identity, rawRole, rawRoles)
	if err != nil {
		s.countLogin("error")
		return nil, err
	}

	s.countLogin("success")
	return &LoginResult{
		Session:    session,
		RedirectTo: authgate.ResolveLoginRedirect(input.Redirect, effectiveRole(session)),
	}, nil
}

// GetSession retrieves a session by ID. Expired sessions are deleted on read
// and reported as ErrSessionExpired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// CurrentUser resolves the session into the user shape the dashboard renders.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (domainauth.User, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return domainauth.User{}, err
	}
	roles := make([]string, 0, len(session.Roles))
	for _, r := range session.Roles {
		roles = append(roles, string(r))
	}
	return domainauth.User{
		ID:        session.UserID,
		Email:     session.Email,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		Role:      string(session.Role),
		Roles:     roles,
	}, nil
}

// Logout removes a session. Logging out an unknown or empty session is a
// no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ListUsers returns all accounts for the admin console.
func (s *AuthService) ListUsers(ctx context.Context) ([]domainauth.User, error) {
	if s.users == nil {
		return nil, errors.New("user administration is not configured")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetUserRole updates an account's role from the admin console. The raw role
// is normalized before it is stored so both role representations stay
// canonical.
func (s *AuthService) SetUserRole(ctx context.Context, userID, rawRole string) (domainauth.User, error) {
	if s.users == nil {
		return domainauth.User{}, errors.New("user administration is not configured")
	}
	if strings.TrimSpace(rawRole) == "" {
		return domainauth.User{}, apperrors.ValidationField("role", "Role is required")
	}

	role, _ := domainauth.Normalize(rawRole, nil)
	if err := s.users.SetRole(ctx, userID, role); err != nil {
		return domainauth.User{}, fmt.Errorf("set role: %w", err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("reload user: %w", err)
	}
	return user, nil
}

// createSession normalizes the identity's role claims, mints a session ID,
// and persists the session.
func (s *AuthService) createSession(ctx context.Context, identity domainauth.Identity, rawRole domainauth.Role, rawRoles []string) (domainauth.Session, error) {
	role, roles := domainauth.Normalize(string(rawRole), rawRoles)

	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      role,
		Roles:     roles,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// effectiveRole collapses the two role representations into the single role
// the redirect resolver keys on.
func effectiveRole(session domainauth.Session) domainauth.Role {
	if session.HasAdminAccess() {
		return domainauth.RoleAdmin
	}
	return session.Role
}

func (s *AuthService) countLogin(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count("auth.login", 1, map[string]string{"outcome": outcome})
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
