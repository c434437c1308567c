package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

// serveWatch runs the SSE handler until the deadline and returns the recorded
// response body.
func serveWatch(t *testing.T, h *SessionWatchHandler, req *http.Request, wait time.Duration) *httptest.ResponseRecorder {
	t.Helper()

	ctx, cancel := context.WithCancel(req.Context())
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Watch(w, req)
	}()

	time.Sleep(wait)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch handler did not stop after context cancel")
	}
	return w
}

func TestSessionWatch_Unauthenticated(t *testing.T) {
	mockSvc := &mockAuthService{
		getSessionFunc: func(_ context.Context, _ string) (*domainauth.Session, error) {
			return nil, errors.New("session not found")
		},
	}
	handler := &SessionWatchHandler{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session/watch?path=%2Fdashboard", nil)
	w := serveWatch(t, handler, req, 200*time.Millisecond)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "event: decision")
	assert.Contains(t, body, `"state":"unauthenticated"`)
	assert.Contains(t, body, `"render_content":false`)

	// The gate's deferred navigation fires and carries the guarded path.
	assert.Contains(t, body, "event: navigate")
	assert.Contains(t, body, `"to":"/login?redirect=%2Fdashboard"`)
}

func TestSessionWatch_AuthenticatedStaysQuiet(t *testing.T) {
	handler := &SessionWatchHandler{
		Svc:      &mockAuthService{},
		Interval: 20 * time.Millisecond,
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session/watch?path=%2Fportfolio", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "test-session"})
	w := serveWatch(t, handler, req, 150*time.Millisecond)

	body := w.Body.String()
	assert.Contains(t, body, `"state":"allowed"`)
	assert.Contains(t, body, `"render_content":true`)
	assert.NotContains(t, body, "event: navigate")

	// Steady-state ticks re-check the session but do not re-emit decisions.
	assert.Equal(t, 1, countOccurrences(body, "event: decision"))
	assert.Contains(t, body, ": keep-alive")
}

func TestSessionWatch_AdminRequired_NonAdmin(t *testing.T) {
	handler := &SessionWatchHandler{Svc: &mockAuthService{}}

	req := httptest.NewRequest(http.MethodGet,
		"/api/auth/session/watch?path=%2Fadmin&require_admin=true", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "test-session"})
	w := serveWatch(t, handler, req, 200*time.Millisecond)

	body := w.Body.String()
	assert.Contains(t, body, `"state":"no_access"`)
	assert.Contains(t, body, `"show_access_denied":true`)

	// No-access sends the user home rather than to login.
	assert.Contains(t, body, "event: navigate")
	assert.Contains(t, body, `"to":"/"`)
}

func TestSessionWatch_SessionRevokedMidStream(t *testing.T) {
	calls := 0
	mockSvc := &mockAuthService{
		getSessionFunc: func(_ context.Context, sessionID string) (*domainauth.Session, error) {
			calls++
			if calls > 1 {
				return nil, errors.New("session revoked")
			}
			s := testSession()
			s.ID = sessionID
			return &s, nil
		},
	}
	handler := &SessionWatchHandler{Svc: mockSvc, Interval: 20 * time.Millisecond}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session/watch?path=%2Fportfolio", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "test-session"})
	w := serveWatch(t, handler, req, 200*time.Millisecond)

	body := w.Body.String()
	require.Contains(t, body, `"state":"allowed"`)

	// The revalidation tick notices the revoked session and pushes the
	// client back to login.
	assert.Contains(t, body, `"state":"unauthenticated"`)
	assert.Contains(t, body, "event: navigate")
	assert.Contains(t, body, `"to":"/login?redirect=%2Fportfolio"`)
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
