package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Kept as a string because the backend may introduce role names beyond the
// constants below; canonical form is always lowercase.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// User is the account record as reported by the account store or IdP.
// Role and Roles are two historical representations of the same fact and may
// disagree; callers must go through Normalize before making access decisions.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Role      string   `json:"role,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub or account row id)
	FirstName string
	LastName  string
	Email     string
	Role      string
	Roles     []string
	Groups    []string  // raw IdP groups, mapped to a role by a ports.RoleMapper
	ExpiresAt time.Time // absolute expiry from IdP token or session policy
}

// Session is the server-side record we persist for an authenticated user.
// Role and Roles are stored in canonical (normalized) form.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Roles     []Role    `json:"roles,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// HasAdminAccess reports whether this session grants admin capability
// through either role representation.
func (s Session) HasAdminAccess() bool { return HasAdminAccess(s.Role, s.Roles) }
