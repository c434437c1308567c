package httpx

import (
	"context"
	"errors"
	"net/http"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

// AdminServiceInterface defines the account administration operations the
// admin console uses.
type AdminServiceInterface interface {
	ListUsers(ctx context.Context) ([]domainauth.User, error)
	SetUserRole(ctx context.Context, userID, rawRole string) (domainauth.User, error)
}

// AdminHandlers provides HTTP handlers for the admin console API. All routes
// behind these handlers require an admin-capable session.
type AdminHandlers struct {
	Svc AdminServiceInterface
}

// ListUsers handles GET /api/admin/users. Results are paginated with the
// standard limit/offset query params.
func (h *AdminHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.ListUsers(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	limit, offset := ParseLimitOffset(r, DefaultListLimit, MaxListLimit)
	total := len(users)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"users": users[offset:end],
		"total": total,
	})
}

// setRoleRequest is the role change payload.
type setRoleRequest struct {
	Role string `json:"role"`
}

// SetUserRole handles PATCH /api/admin/users/{id}/role.
func (h *AdminHandlers) SetUserRole(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_id",
			Err:     errors.New("user ID is required"),
		})
		return
	}

	var req setRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.SetUserRole(r.Context(), userID, req.Role)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
