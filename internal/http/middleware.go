package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
	"github.com/tradepro/ui-api/internal/domain/authgate"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush passes through to the underlying writer so logged handlers can still
// stream (SSE).
func (w *respWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// MetricsSink receives per-request metrics from the RequestMetrics middleware.
type MetricsSink interface {
	Count(name string, value int64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// RequestMetrics emits a count and a timing per request, tagged with the
// method and response status.
func RequestMetrics(sink MetricsSink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			tags := map[string]string{
				"method": r.Method,
				"status": strconv.Itoa(ww.status),
			}
			sink.Count("http.request", 1, tags)
			sink.Timing("http.request.duration", time.Since(start), tags)
		})
	}
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that requires authentication.
// If the user is not authenticated, it returns a 401 Unauthorized response.
func RequireAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, authSvc)
			if session == nil {
				writeAuthRequired(w)
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns a middleware that requires an admin-capable session.
// Returns 401 when unauthenticated and 403 when authenticated without admin
// capability.
func RequireAdmin(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, authSvc)
			if session == nil {
				writeAuthRequired(w)
				return
			}
			if !session.HasAdminAccess() {
				writeInsufficientPermissions(w)
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns a middleware that optionally adds authentication
// information. If the user is authenticated, the session is added to the
// request context; otherwise the request continues without it.
func OptionalAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, authSvc)
			if session != nil {
				ctx := SetSessionInContext(r.Context(), session)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}

	session, err := authSvc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// gateStateForSession maps a (possibly nil) session onto the access-policy
// state the gate evaluates. HTTP requests never observe a loading state; that
// only exists before the first session check completes on a live connection.
func gateStateForSession(session *domainauth.Session) authgate.State {
	if session == nil {
		return authgate.State{}
	}
	roles := make([]string, 0, len(session.Roles))
	for _, role := range session.Roles {
		roles = append(roles, string(role))
	}
	return authgate.State{
		Authenticated: true,
		User: &domainauth.User{
			ID:        session.UserID,
			Email:     session.Email,
			FirstName: session.FirstName,
			LastName:  session.LastName,
			Role:      string(session.Role),
			Roles:     roles,
		},
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API
// requests. Downstream handlers use it to decide between redirects and JSON
// errors.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isBrowser := isBrowserRequest(r)
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if val := r.Context().Value(browserRequestKey{}); val != nil {
		if isBrowser, ok := val.(bool); ok {
			return isBrowser
		}
	}
	// Fallback to direct detection if middleware wasn't used
	return isBrowserRequest(r)
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - API routes start with /api/
// 2. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	if strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for non-API routes
		return true
	}
	return strings.Contains(accept, "text/html")
}

// RequireAuthBrowser gates a route on an authenticated session with
// browser-aware behavior. Unauthenticated browser requests are redirected to
// the login page carrying the current path; API requests get a 401 JSON
// response.
func RequireAuthBrowser(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return gateMiddleware(authSvc, false)
}

// RequireAdminBrowser gates a route on an admin-capable session with
// browser-aware behavior. Unauthenticated requests behave like
// RequireAuthBrowser; authenticated sessions without admin capability are
// sent to the home page (browser) or get 403 JSON (API).
func RequireAdminBrowser(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return gateMiddleware(authSvc, true)
}

func gateMiddleware(authSvc AuthServiceInterface, requireAdmin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, authSvc)
			decision := authgate.Evaluate(gateStateForSession(session), requireAdmin, redirectPathForRequest(r))

			switch decision.State {
			case authgate.StateAllowed:
				ctx := SetSessionInContext(r.Context(), session)
				next.ServeHTTP(w, r.WithContext(ctx))
			case authgate.StateUnauthenticated:
				if IsBrowserRequest(r) {
					http.Redirect(w, r, decision.NavigateTo, http.StatusSeeOther)
					return
				}
				writeAuthRequired(w)
			case authgate.StateNoAccess:
				if IsBrowserRequest(r) {
					showAccessDenied(w, r, decision.NavigateTo)
					return
				}
				writeInsufficientPermissions(w)
			default:
				writeAuthRequired(w)
			}
		})
	}
}

func writeAuthRequired(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

func writeInsufficientPermissions(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	})
}

// redirectPathForRequest returns the same-origin path a login redirect should
// return the user to.
func redirectPathForRequest(r *http.Request) string {
	return safeRedirectPath(r.URL.RequestURI())
}

// showAccessDenied renders a minimal access-denied page for browser requests.
// The fallback navigation target is included so a user stuck on the page can
// still get out.
func showAccessDenied(w http.ResponseWriter, _ *http.Request, fallback string) {
	if fallback == "" {
		fallback = authgate.HomePath
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(
		`<!doctype html><title>Access denied</title>` +
			`<p>You don't have permission to access this page.</p>` +
			`<p><a href="` + fallback + `">Back to the dashboard</a></p>`))
}

// safeRedirectFromURL extracts a same-origin relative path from a raw URL
// string, or returns "" when it cannot be trusted.
func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}

	// For absolute URLs, use just the path/query portion to keep redirects within the app.
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}

	return safeRedirectPath(raw)
}
