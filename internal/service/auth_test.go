package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
	apperrors "github.com/tradepro/ui-api/internal/errors"
	mocks "github.com/tradepro/ui-api/internal/mocks/auth"
	"github.com/tradepro/ui-api/internal/ports"
)

// mockSessionStore is a test helper for testing session store errors.
type mockSessionStore struct {
	saveFunc   func(context.Context, domainauth.Session) error
	getFunc    func(context.Context, string) (domainauth.Session, error)
	deleteFunc func(context.Context, string) error
}

func (m *mockSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sess)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domainauth.Session{}, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func traderIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:    "user-1",
		FirstName: "Test",
		LastName:  "Trader",
		Email:     "test@example.com",
		Role:      "user",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func adminIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:    "admin-1",
		FirstName: "Ada",
		LastName:  "Admin",
		Email:     "admin@tradepro.com",
		Role:      "Administrator",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func newPasswordAuthService(identities ...domainauth.Identity) (*AuthService, *mocks.MemorySessionStore) {
	sessions := mocks.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{
		Verifier:  mocks.NewMockCredentialVerifier(identities...),
		Registrar: mocks.NewMockCredentialVerifier(identities...),
		Sessions:  sessions,
	})
	return svc, sessions
}

func TestNewAuthService(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	sessions := mocks.NewMemorySessionStore()
	roles := mocks.StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"}

	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    roles,
	})

	assert.NotNil(t, service)
	assert.Equal(t, provider, service.provider)
	assert.Equal(t, sessions, service.sessions)
	assert.Equal(t, roles, service.roles)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, sessions := newPasswordAuthService(traderIdentity())

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "Test@Example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Session.ID)
	assert.Equal(t, "user-1", result.Session.UserID)
	assert.Equal(t, domainauth.RoleUser, result.Session.Role)
	assert.Equal(t, "/", result.RedirectTo)

	stored, err := sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Session.UserID, stored.UserID)
}

func TestAuthService_Login_RedirectPassthroughForUser(t *testing.T) {
	svc, _ := newPasswordAuthService(traderIdentity())

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "password123",
		Redirect: "/portfolio",
	})

	require.NoError(t, err)
	assert.Equal(t, "/portfolio", result.RedirectTo)
}

func TestAuthService_Login_AdminLandsOnAdminConsole(t *testing.T) {
	svc, _ := newPasswordAuthService(adminIdentity())
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{
		Email:    "admin@tradepro.com",
		Password: "password123",
		Redirect: "/portfolio",
	})
	require.NoError(t, err)
	assert.Equal(t, "/admin", result.RedirectTo)
	assert.Equal(t, domainauth.RoleAdmin, result.Session.Role)

	result, err = svc.Login(ctx, LoginInput{
		Email:    "admin@tradepro.com",
		Password: "password123",
		Redirect: "/admin/users",
	})
	require.NoError(t, err)
	assert.Equal(t, "/admin/users", result.RedirectTo)
}

func TestAuthService_Login_AdminOnlyInRolesList(t *testing.T) {
	id := traderIdentity()
	id.Role = "user"
	id.Roles = []string{"user", "super_admin"}
	svc, _ := newPasswordAuthService(id)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "/admin", result.RedirectTo)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _ := newPasswordAuthService(traderIdentity())

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "wrong-password",
	})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestAuthService_Login_RateLimited(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{
		Verifier: mocks.NewMockCredentialVerifier(traderIdentity()),
		Sessions: sessions,
		Limiter:  NewLoginLimiterWith(0, 2),
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, LoginInput{Email: "test@example.com", Password: "password123"})
		require.NoError(t, err)
	}

	_, err := svc.Login(ctx, LoginInput{Email: "test@example.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperrors.IsRateLimited(err))

	// The same account from a different client address has its own bucket.
	_, err = svc.Login(ctx, LoginInput{Email: "test@example.com", Password: "password123", ClientIP: "203.0.113.9"})
	require.NoError(t, err)

	// Other accounts are unaffected.
	svc2 := NewAuthService(AuthServiceOptions{
		Verifier: mocks.NewMockCredentialVerifier(traderIdentity(), adminIdentity()),
		Sessions: sessions,
		Limiter:  NewLoginLimiterWith(0, 1),
	})
	_, err = svc2.Login(ctx, LoginInput{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = svc2.Login(ctx, LoginInput{Email: "admin@tradepro.com", Password: "password123"})
	require.NoError(t, err)
}

func TestAuthService_Login_NotConfigured(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{Sessions: mocks.NewMemorySessionStore()})

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@b.co", Password: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAuthService_Register_SignsIn(t *testing.T) {
	svc, sessions := newPasswordAuthService()

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:     "new@example.com",
		Password:  "password123",
		FirstName: "New",
		LastName:  "Trader",
	})

	require.NoError(t, err)
	assert.Equal(t, "/", result.RedirectTo)
	assert.Equal(t, domainauth.RoleUser, result.Session.Role)

	_, err = sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
}

func TestAuthService_BeginLogin_Success(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
		Roles:    mocks.StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"},
	})

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/callback")

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestAuthService_BeginLogin_EmptyRedirectURL(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.BeginLogin(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "", "", "", errors.New("provider error")
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/callback")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "begin auth flow")
	assert.Contains(t, err.Error(), "provider error")
}

func TestAuthService_CompleteLogin_MapsGroupsToRole(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		DefaultUser: domainauth.Identity{
			UserID:    "admin-user",
			FirstName: "Ada",
			LastName:  "Admin",
			Email:     "admin@tradepro.com",
			Groups:    []string{"tradepro-admins", "tradepro-users"},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
		Roles:    mocks.StaticRoleMapper{AdminGroup: "tradepro-admins", UserGroup: "tradepro-users"},
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, result.Session.Role)
	assert.Equal(t, "Ada", result.Session.FirstName)
	assert.Equal(t, "/admin", result.RedirectTo)
	assert.True(t, result.Session.ExpiresAt.After(time.Now()))
}

func TestAuthService_CompleteLogin_IdentityRoleWinsOverGroups(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		DefaultUser: domainauth.Identity{
			UserID:    "user-2",
			Email:     "user2@example.com",
			Role:      "User",
			Groups:    []string{"tradepro-admins"},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
		Roles:    mocks.StaticRoleMapper{AdminGroup: "tradepro-admins"},
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state", Nonce: "nonce",
	})

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUser, result.Session.Role)
}

func TestAuthService_CompleteLogin_Validation(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})
	ctx := context.Background()

	cases := []struct {
		name  string
		input CompleteLoginInput
		want  string
	}{
		{"missing code", CompleteLoginInput{State: "s", Nonce: "n"}, "authorization code is required"},
		{"missing state", CompleteLoginInput{Code: "c", Nonce: "n"}, "state parameter is required"},
		{"missing nonce", CompleteLoginInput{Code: "c", State: "s"}, "nonce parameter is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CompleteLogin(ctx, tc.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestAuthService_CompleteLogin_ExchangeError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("exchange failed")
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
	})

	_, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "c", State: "s", Nonce: "n",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange authorization code")
}

func TestAuthService_CompleteLogin_SaveError(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: &mockSessionStore{
			saveFunc: func(context.Context, domainauth.Session) error {
				return errors.New("redis down")
			},
		},
		Roles: mocks.StaticRoleMapper{UserGroup: "users"},
	})

	_, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "c", State: "s", Nonce: "n",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
}

func TestAuthService_GetSession(t *testing.T) {
	svc, _ := newPasswordAuthService(traderIdentity())
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)

	session, err := svc.GetSession(ctx, result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Session.UserID, session.UserID)

	_, err = svc.GetSession(ctx, "")
	require.Error(t, err)

	_, err = svc.GetSession(ctx, "unknown-session")
	require.Error(t, err)
}

func TestAuthService_GetSession_ExpiredIsDeleted(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{Sessions: sessions})
	ctx := context.Background()

	expired := domainauth.Session{
		ID:        "expired-session",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, expired))

	_, err := svc.GetSession(ctx, "expired-session")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = sessions.Get(ctx, "expired-session")
	assert.Error(t, err)
}

func TestAuthService_CurrentUser(t *testing.T) {
	id := adminIdentity()
	id.Roles = []string{"Administrator", "user"}
	svc, _ := newPasswordAuthService(id)
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{Email: "admin@tradepro.com", Password: "password123"})
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", user.ID)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, []string{"administrator", "user"}, user.Roles)
}

func TestAuthService_Logout(t *testing.T) {
	svc, sessions := newPasswordAuthService(traderIdentity())
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.Session.ID))
	_, err = sessions.Get(ctx, result.Session.ID)
	assert.Error(t, err)

	// Logging out again, or with no session, is a no-op.
	require.NoError(t, svc.Logout(ctx, result.Session.ID))
	require.NoError(t, svc.Logout(ctx, ""))
}

func TestAuthService_SetUserRole(t *testing.T) {
	users := mocks.NewMemoryUserRepository(domainauth.User{
		ID:    "user-1",
		Email: "test@example.com",
		Role:  "user",
	})
	svc := NewAuthService(AuthServiceOptions{
		Sessions: mocks.NewMemorySessionStore(),
		Users:    users,
	})
	ctx := context.Background()

	user, err := svc.SetUserRole(ctx, "user-1", "  Administrator ")
	require.NoError(t, err)
	assert.Equal(t, "administrator", user.Role)
	assert.Equal(t, []string{"administrator"}, user.Roles)

	_, err = svc.SetUserRole(ctx, "user-1", "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.SetUserRole(ctx, "missing-user", "user")
	require.Error(t, err)
}

func TestAuthService_ListUsers(t *testing.T) {
	users := mocks.NewMemoryUserRepository(
		domainauth.User{ID: "user-1", Email: "test@example.com", Role: "user"},
		domainauth.User{ID: "admin-1", Email: "admin@tradepro.com", Role: "admin"},
	)
	svc := NewAuthService(AuthServiceOptions{
		Sessions: mocks.NewMemorySessionStore(),
		Users:    users,
	})

	list, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
