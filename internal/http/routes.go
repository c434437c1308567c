package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth   AuthServiceInterface
	Market MarketServiceInterface
	Admin  AdminServiceInterface

	CookieDomain string
	SSOEnabled   bool

	// SessionWatchInterval overrides how often live session streams
	// revalidate; zero uses the default.
	SessionWatchInterval time.Duration

	Logger *slog.Logger
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
		SSOEnabled:   services.SSOEnabled,
	}
	watchHandler := &SessionWatchHandler{
		Svc:      services.Auth,
		Interval: services.SessionWatchInterval,
		Logger:   services.Logger,
	}

	registerAuthRoutes(mux, authHandlers, watchHandler)
	if services.Market != nil {
		registerMarketRoutes(mux, &MarketHandlers{Svc: services.Market}, services.Auth)
	}
	if services.Admin != nil {
		registerAdminRoutes(mux, &AdminHandlers{Svc: services.Admin}, services.Auth)
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return BrowserDetection()(mux)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, watch *SessionWatchHandler) {
	mux.HandleFunc("POST /api/auth/login", h.PasswordLogin)
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/status", h.Status)
	mux.HandleFunc("GET /api/auth/session/watch", watch.Watch)

	// Browser SSO flow; returns 404 when SSO is not configured.
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)

	// Browser form logout; answers with a redirect instead of JSON.
	mux.HandleFunc("POST /auth/logout", h.Logout)
}

func registerMarketRoutes(mux *http.ServeMux, h *MarketHandlers, auth AuthServiceInterface) {
	authed := RequireAuth(auth)
	mux.Handle("GET /api/symbols", authed(http.HandlerFunc(h.ListSymbols)))
	mux.Handle("GET /api/quotes/{ticker}", authed(http.HandlerFunc(h.GetQuote)))
	mux.Handle("GET /api/watchlist", authed(http.HandlerFunc(h.Watchlist)))
	mux.Handle("POST /api/watchlist", authed(http.HandlerFunc(h.AddToWatchlist)))
	mux.Handle("DELETE /api/watchlist/{ticker}", authed(http.HandlerFunc(h.RemoveFromWatchlist)))
	mux.Handle("GET /api/account/stats", authed(http.HandlerFunc(h.AccountStats)))
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers, auth AuthServiceInterface) {
	adminOnly := RequireAdminBrowser(auth)
	mux.Handle("GET /api/admin/users", adminOnly(http.HandlerFunc(h.ListUsers)))
	mux.Handle("PATCH /api/admin/users/{id}/role", adminOnly(http.HandlerFunc(h.SetUserRole)))
}
