package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
	"github.com/tradepro/ui-api/internal/ports"
	"github.com/tradepro/ui-api/internal/service"
)

// memSessionStore is a minimal in-memory SessionStore for tests.
type memSessionStore struct{ m map[string]domainauth.Session }

func (s *memSessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if s.m == nil {
		s.m = map[string]domainauth.Session{}
	}
	s.m[sess.ID] = sess
	return nil
}

func (s *memSessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := s.m[id]
	if !ok {
		return domainauth.Session{}, errors.New("not found")
	}
	return sess, nil
}
func (s *memSessionStore) Delete(_ context.Context, id string) error { delete(s.m, id); return nil }

func newRouterForTest(t *testing.T) http.Handler {
	t.Helper()

	store := &memSessionStore{m: map[string]domainauth.Session{}}
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Sessions: ports.SessionStore(store),
	})
	_ = store.Save(context.Background(), domainauth.Session{
		ID:        "admin",
		UserID:    "admin-user",
		Email:     "admin@example.com",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	_ = store.Save(context.Background(), domainauth.Session{
		ID:        "user",
		UserID:    "plain-user",
		Email:     "test@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	})

	return NewRouter(RouterServices{
		Auth:   authSvc,
		Market: &mockMarketService{},
		Admin:  &mockAdminService{},
	})
}

func TestRouter_Healthz(t *testing.T) {
	mux := newRouterForTest(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	mux.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MarketRoutesRequireAuth(t *testing.T) {
	mux := newRouterForTest(t)

	t.Run("unauthenticated -> 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/symbols", nil)
		mux.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user session -> 200", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/symbols", nil)
		r.AddCookie(&http.Cookie{Name: "session_id", Value: "user"})
		mux.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		_, hasSymbols := resp["symbols"]
		assert.True(t, hasSymbols)
	})
}

func TestRouter_AdminProtectedUsersRoute(t *testing.T) {
	mux := newRouterForTest(t)

	t.Run("unauthenticated -> 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		mux.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin session -> 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		r.AddCookie(&http.Cookie{Name: "session_id", Value: "user"})
		mux.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin session -> 200", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		r.AddCookie(&http.Cookie{Name: "session_id", Value: "admin"})
		mux.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		_, hasUsers := resp["users"]
		assert.True(t, hasUsers)
	})
}

func TestRouter_SSOLoginDisabled(t *testing.T) {
	mux := newRouterForTest(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	mux.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AuthStatusWithoutSession(t *testing.T) {
	mux := newRouterForTest(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	mux.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
