package httpx

// Cookie names used by the auth handlers and middleware.
const (
	// SessionCookieName carries the server-side session ID.
	SessionCookieName = "session_id"

	// OAuth flow cookies, short-lived and cleared after the callback.
	OAuthStateCookieName    = "oauth_state"
	OAuthNonceCookieName    = "oauth_nonce"
	PostLoginRedirectCookie = "post_login_redirect"
)

// oauthCookieMaxAge bounds how long an in-flight SSO login may take.
const oauthCookieMaxAge = 600 // seconds

// Default pagination bounds for list endpoints.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)
