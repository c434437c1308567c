package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/tradepro/ui-api/config"
	"github.com/tradepro/ui-api/internal/adapters/authroles"
	"github.com/tradepro/ui-api/internal/adapters/devauth"
	"github.com/tradepro/ui-api/internal/adapters/oidc"
	"github.com/tradepro/ui-api/internal/adapters/passwordauth"
	redisadapter "github.com/tradepro/ui-api/internal/adapters/redis"
	"github.com/tradepro/ui-api/internal/data"
	"github.com/tradepro/ui-api/internal/observability/statsd"
	"github.com/tradepro/ui-api/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	DB          *sql.DB
	Metrics     *statsd.Client
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	// Sessions live in Redis in every mode.
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")

	opts := service.AuthServiceOptions{
		Sessions: sessionStore,
	}
	if cfg.DB != nil {
		opts.Users = data.NewUserRepo(cfg.DB)
	}
	if cfg.Metrics != nil && cfg.Metrics.Enabled() {
		opts.Metrics = cfg.Metrics
	}

	switch cfg.Auth.Mode {
	case config.AuthModePassword:
		return buildPasswordAuthService(cfg, opts)

	case config.AuthModeMock:
		return buildDevAuthService(cfg, opts)

	case config.AuthModeOAuth:
		return buildOAuthService(cfg, opts)

	default:
		return nil
	}
}

func buildPasswordAuthService(cfg AuthConfig, opts service.AuthServiceOptions) *service.AuthService {
	if cfg.DB == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("password auth selected but database not configured; auth disabled")
		}
		return nil
	}

	verifier := passwordauth.NewVerifier(data.NewUserRepo(cfg.DB))
	verifier.SessionTTL = cfg.Auth.SessionTTL

	opts.Verifier = verifier
	opts.Registrar = verifier
	opts.Limiter = service.NewLoginLimiterWith(
		rate.Limit(cfg.Auth.LoginRatePerMinute/60.0),
		cfg.Auth.LoginBurst,
	)

	return service.NewAuthService(opts)
}

func buildDevAuthService(cfg AuthConfig, opts service.AuthServiceOptions) *service.AuthService {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          cfg.Auth.DevAuth.UserID,
		Email:           cfg.Auth.DevAuth.Email,
		Groups:          cfg.Auth.DevAuth.Groups,
		SessionDuration: cfg.Auth.SessionTTL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	opts.Provider = prov
	opts.Roles = authroles.StaticRoleMapper{AdminGroups: cfg.Auth.AdminGroups}

	return service.NewAuthService(opts)
}

func buildOAuthService(cfg AuthConfig, opts service.AuthServiceOptions) *service.AuthService {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}

	opts.Provider = prov
	opts.Roles = authroles.StaticRoleMapper{AdminGroups: cfg.Auth.AdminGroups}

	return service.NewAuthService(opts)
}
