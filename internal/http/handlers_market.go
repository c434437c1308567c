package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/tradepro/ui-api/internal/domain/market"
)

// MarketServiceInterface defines the market data operations handlers need.
type MarketServiceInterface interface {
	ListSymbols(ctx context.Context) ([]market.Symbol, error)
	GetQuote(ctx context.Context, ticker string) (market.Quote, error)
	Watchlist(ctx context.Context, userID string) ([]market.WatchlistEntry, error)
	AddToWatchlist(ctx context.Context, userID, ticker string) (market.WatchlistEntry, error)
	RemoveFromWatchlist(ctx context.Context, userID, ticker string) error
	AccountStats(ctx context.Context, userID string) (market.AccountStats, error)
}

// MarketHandlers provides HTTP handlers for symbols, quotes, watchlists, and
// account summaries. All routes behind these handlers require a session.
type MarketHandlers struct {
	Svc MarketServiceInterface
}

// ListSymbols handles GET /api/symbols.
func (h *MarketHandlers) ListSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.Svc.ListSymbols(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"symbols": symbols})
}

// GetQuote handles GET /api/quotes/{ticker}.
func (h *MarketHandlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.Svc.GetQuote(r.Context(), r.PathValue("ticker"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// Watchlist handles GET /api/watchlist.
func (h *MarketHandlers) Watchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	entries, err := h.Svc.Watchlist(r.Context(), userID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"watchlist": entries})
}

// watchlistRequest is the add-to-watchlist payload.
type watchlistRequest struct {
	Ticker string `json:"ticker"`
}

// AddToWatchlist handles POST /api/watchlist.
func (h *MarketHandlers) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req watchlistRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	entry, err := h.Svc.AddToWatchlist(r.Context(), userID, req.Ticker)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// RemoveFromWatchlist handles DELETE /api/watchlist/{ticker}.
func (h *MarketHandlers) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.RemoveFromWatchlist(r.Context(), userID, r.PathValue("ticker")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AccountStats handles GET /api/account/stats.
func (h *MarketHandlers) AccountStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	stats, err := h.Svc.AccountStats(r.Context(), userID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// currentUserID pulls the authenticated user from the request context; the
// auth middleware put it there. A missing session means the route was wired
// without the middleware, which is a server error, but answer 401 so the
// client retries through login.
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok || session.UserID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return "", false
	}
	return session.UserID, true
}
