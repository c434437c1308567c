package httpx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
	"github.com/tradepro/ui-api/internal/domain/authgate"
)

// DefaultSessionWatchInterval is how often the watcher revalidates the
// session against the store.
const DefaultSessionWatchInterval = 15 * time.Second

// SessionWatchHandler streams access-policy decisions for the caller's
// session over server-sent events. The dashboard keeps one stream open per
// protected page; when the session expires or is revoked server-side, the
// stream pushes the navigation the page must perform.
type SessionWatchHandler struct {
	Svc      AuthServiceInterface
	Interval time.Duration
	Logger   *slog.Logger
}

// watchEvent is one SSE frame: a policy decision or a navigation order.
type watchEvent struct {
	name string
	data any
}

type decisionPayload struct {
	State            authgate.PolicyState `json:"state"`
	RenderContent    bool                 `json:"render_content"`
	ShowAccessDenied bool                 `json:"show_access_denied"`
}

type navigatePayload struct {
	To string `json:"to"`
}

// Watch handles GET /api/auth/session/watch.
//
// Query parameters:
//   - path: the page being guarded, used as the login redirect target
//   - require_admin: "true" to apply the admin requirement
func (h *SessionWatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "streaming_unsupported",
			Err:     fmt.Errorf("response writer does not support streaming"),
		})
		return
	}

	// The stream outlives the server's write timeout; lift the deadline for
	// this response only. ResponseRecorder and similar writers return
	// ErrNotSupported, which is fine to ignore.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	requireAdmin := r.URL.Query().Get("require_admin") == "true"
	currentPath := safeRedirectPath(r.URL.Query().Get("path"))

	// Events are produced from store notifications and the gate's deferred
	// navigation task; the write loop below is the only writer to the
	// connection. The buffer absorbs bursts; a stream that far behind has a
	// dead client and loses nothing meaningful by dropping.
	events := make(chan watchEvent, 16)
	emit := func(ev watchEvent) {
		select {
		case events <- ev:
		default:
		}
	}

	store := authgate.NewStore()
	gate := authgate.NewGate(authgate.GateOptions{
		Store:        store,
		RequireAdmin: requireAdmin,
		CurrentPath:  currentPath,
		Navigator: authgate.NavigatorFunc(func(path string) {
			emit(watchEvent{name: "navigate", data: navigatePayload{To: path}})
		}),
	})
	defer gate.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Resolve the initial session state. The store starts in loading, so the
	// first decision the client sees is always the post-check one.
	h.refresh(r, store)

	// Send the decision for the resolved snapshot before entering the loop.
	d := gate.Decision()
	writeSSE(w, "decision", decisionPayload{
		State:            d.State,
		RenderContent:    d.RenderContent,
		ShowAccessDenied: d.ShowAccessDenied,
	}, h.logger())
	flusher.Flush()

	// Subscribing after the initial write means only subsequent state changes
	// produce decision events; the initial check is never double-reported.
	cancelSub := store.Subscribe(func(st authgate.State) {
		nd := authgate.Evaluate(st, requireAdmin, currentPath)
		emit(watchEvent{name: "decision", data: decisionPayload{
			State:            nd.State,
			RenderContent:    nd.RenderContent,
			ShowAccessDenied: nd.ShowAccessDenied,
		}})
	})
	defer cancelSub()

	interval := h.Interval
	if interval <= 0 {
		interval = DefaultSessionWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			h.refresh(r, store)
			// Heartbeat comment keeps proxies from timing out idle streams.
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev := <-events:
			writeSSE(w, ev.name, ev.data, h.logger())
			flusher.Flush()
		}
	}
}

// refresh revalidates the session cookie and feeds the result into the store.
// The store deduplicates at the gate level, so repeated identical results do
// not re-fire navigation.
func (h *SessionWatchHandler) refresh(r *http.Request, store *authgate.Store) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		clearOnce(store)
		return
	}
	session, err := h.Svc.GetSession(r.Context(), cookie.Value)
	if err != nil || session == nil {
		clearOnce(store)
		return
	}
	// Skip the no-op update when the same account is still signed in, so
	// steady-state ticks do not re-notify subscribers.
	snap := store.Snapshot()
	if !snap.Loading && snap.Authenticated && snap.User != nil &&
		snap.User.ID == session.UserID && snap.User.Role == string(session.Role) {
		return
	}

	roles := make([]string, 0, len(session.Roles))
	for _, role := range session.Roles {
		roles = append(roles, string(role))
	}
	store.Resolve(&domainauth.User{
		ID:        session.UserID,
		Email:     session.Email,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		Role:      string(session.Role),
		Roles:     roles,
	})
}

// clearOnce only clears the store when it still holds a user or is loading,
// so an already-signed-out stream does not re-notify every tick.
func clearOnce(store *authgate.Store) {
	snap := store.Snapshot()
	if snap.Loading || snap.Authenticated {
		store.Clear()
	}
}

func (h *SessionWatchHandler) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func writeSSE(w http.ResponseWriter, event string, data any, logger *slog.Logger) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Error("encode sse payload", "event", event, "error", err)
		return
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		// Client is gone; the read loop will observe the context cancel.
		return
	}
}
