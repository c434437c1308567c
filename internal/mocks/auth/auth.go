package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
	"github.com/tradepro/ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider       = (*MockAuthProvider)(nil)
	_ ports.SessionStore       = (*MemorySessionStore)(nil)
	_ ports.RoleMapper         = (*StaticRoleMapper)(nil)
	_ ports.CredentialVerifier = (*MockCredentialVerifier)(nil)
	_ ports.UserRegistrar      = (*MockCredentialVerifier)(nil)
	_ ports.UserRepository     = (*MemoryUserRepository)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID:    "mock-user-1",
			FirstName: "Mock",
			LastName:  "User",
			Email:     "mock.user@example.com",
			Groups:    []string{"users"},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	// Generate deterministic state and nonce based on call count
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{
			UserID:    "mock-user-1",
			FirstName: "Mock",
			LastName:  "User",
			Email:     "mock.user@example.com",
			Groups:    []string{"users"},
		}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

// MockCredentialVerifier simulates the password login mode: a fixed set of
// accounts keyed by email, all sharing one password.
type MockCredentialVerifier struct {
	VerifyFunc   func(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error)
	RegisterFunc func(ctx context.Context, in ports.RegisterInput) (domainauth.Identity, error)

	Password   string
	Identities map[string]domainauth.Identity // keyed by lowercase email
}

// NewMockCredentialVerifier creates a verifier that accepts password123 for
// the given identities.
func NewMockCredentialVerifier(identities ...domainauth.Identity) *MockCredentialVerifier {
	m := &MockCredentialVerifier{
		Password:   "password123",
		Identities: make(map[string]domainauth.Identity),
	}
	for _, id := range identities {
		m.Identities[strings.ToLower(id.Email)] = id
	}
	return m
}

func (m *MockCredentialVerifier) Verify(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, creds)
	}
	id, ok := m.Identities[strings.ToLower(strings.TrimSpace(creds.Email))]
	if !ok || creds.Password != m.Password {
		return domainauth.Identity{}, errors.New("invalid email or password")
	}
	if id.ExpiresAt.IsZero() {
		id.ExpiresAt = time.Now().Add(time.Hour)
	}
	return id, nil
}

func (m *MockCredentialVerifier) Register(ctx context.Context, in ports.RegisterInput) (domainauth.Identity, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, exists := m.Identities[email]; exists {
		return domainauth.Identity{}, errors.New("account already exists")
	}
	id := domainauth.Identity{
		UserID:    "mock-" + email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		Role:      string(domainauth.RoleUser),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	m.Identities[email] = id
	return id, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	return nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// MemoryUserRepository is an in-memory account store for admin-console tests.
type MemoryUserRepository struct {
	users map[string]domainauth.User
}

// NewMemoryUserRepository creates a repository seeded with the given users.
func NewMemoryUserRepository(users ...domainauth.User) *MemoryUserRepository {
	m := &MemoryUserRepository{users: make(map[string]domainauth.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MemoryUserRepository) GetByID(_ context.Context, id string) (domainauth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domainauth.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryUserRepository) GetByEmail(_ context.Context, email string) (domainauth.User, error) {
	email = strings.ToLower(email)
	for _, u := range m.users {
		if strings.ToLower(u.Email) == email {
			return u, nil
		}
	}
	return domainauth.User{}, ErrNotFound
}

func (m *MemoryUserRepository) List(_ context.Context) ([]domainauth.User, error) {
	out := make([]domainauth.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *MemoryUserRepository) SetRole(_ context.Context, id string, role domainauth.Role) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = string(role)
	u.Roles = []string{string(role)}
	m.users[id] = u
	return nil
}

// StaticRoleMapper maps groups by simple string membership rules.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.UserGroup != "" && g == m.UserGroup {
			return domainauth.RoleUser
		}
	}
	return domainauth.RoleGuest
}
