package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword uses email/password credentials stored in Postgres.
	AuthModePassword AuthMode = "password"
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"tradepro"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"tradepro"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"admins"          envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroups lists the IdP groups that map to the admin role when
	// logging in over SSO.
	AdminGroups []string `env:"ADMIN_GROUPS" envDefault:"tradepro-admins" envSeparator:";"`

	// SessionTTL is how long a session stays valid without re-login.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// LoginRatePerMinute caps password login attempts per account.
	LoginRatePerMinute float64 `env:"LOGIN_RATE_PER_MINUTE" envDefault:"30"`

	// LoginBurst is how many attempts an idle account may make at once.
	LoginBurst int `env:"LOGIN_BURST" envDefault:"5"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
	if a.LoginRatePerMinute <= 0 {
		a.LoginRatePerMinute = 30
	}
	if a.LoginBurst <= 0 {
		a.LoginBurst = 5
	}

	groups := make([]string, 0, len(a.AdminGroups))
	for _, g := range a.AdminGroups {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	a.AdminGroups = groups
}
