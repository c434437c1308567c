package bootstrap

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/tradepro/ui-api/config"
	"github.com/tradepro/ui-api/internal/adapters/marketfeed"
	redisadapter "github.com/tradepro/ui-api/internal/adapters/redis"
	"github.com/tradepro/ui-api/internal/data"
	"github.com/tradepro/ui-api/internal/observability/statsd"
	"github.com/tradepro/ui-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Market        *service.MarketService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB               *sql.DB
	Redis            redis.UniversalClient
	SymbolRepo       *data.SymbolRepo
	PriceRepo        *data.PriceRepo
	WatchlistRepo    *data.WatchlistRepo
	AccountStatsRepo *data.AccountStatsRepo
	UserRepo         *data.UserRepo
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "tradepro",
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redis redis.UniversalClient) *serviceRepositories {
	return &serviceRepositories{
		DB:               db,
		Redis:            redis,
		SymbolRepo:       data.NewSymbolRepo(db),
		PriceRepo:        data.NewPriceRepo(db),
		WatchlistRepo:    data.NewWatchlistRepo(db),
		AccountStatsRepo: data.NewAccountStatsRepo(db),
		UserRepo:         data.NewUserRepo(db),
	}
}

type marketServiceDeps struct {
	Repos         *serviceRepositories
	Cache         config.CacheConfig
	Market        config.MarketConfig
	Observability ObservabilityContainer
	Logger        *slog.Logger
}

func newMarketService(deps marketServiceDeps) *service.MarketService {
	opts := service.MarketServiceOptions{
		Symbols:    deps.Repos.SymbolRepo,
		Prices:     deps.Repos.PriceRepo,
		Watchlists: deps.Repos.WatchlistRepo,
		Accounts:   deps.Repos.AccountStatsRepo,
	}

	if deps.Repos.Redis != nil {
		opts.Cache = redisadapter.NewQuoteCache(deps.Repos.Redis, deps.Cache.QuoteTTL)
	}

	if deps.Market.FeedEnabled() {
		feed, err := marketfeed.NewProvider(marketfeed.Config{
			BaseURL: deps.Market.FeedBaseURL,
			Paths: marketfeed.FieldPaths{
				Bid:           deps.Market.FieldPathBid,
				Ask:           deps.Market.FieldPathAsk,
				Last:          deps.Market.FieldPathLast,
				Change:        deps.Market.FieldPathChange,
				ChangePercent: deps.Market.FieldPathChangePercent,
				Volume:        deps.Market.FieldPathVolume,
			},
			HTTPClient: &http.Client{Timeout: deps.Market.FeedTimeout},
		})
		if err != nil {
			if deps.Logger != nil {
				deps.Logger.Error("failed to initialise market feed, quotes fall back to stored prices", "error", err)
			}
		} else {
			opts.Feed = feed
		}
	}

	if deps.Observability.MetricsSink != nil && deps.Observability.MetricsSink.Enabled() {
		opts.Metrics = deps.Observability.MetricsSink
	}

	return service.NewMarketService(opts)
}

// NewServices wires repositories, observability, and domain services.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	observability := buildObservability(logger, deps.Config.Observability)
	repos := buildRepositories(deps.DB, deps.RedisClient)

	auth := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		DB:          deps.DB,
		Metrics:     observability.MetricsSink,
		Logger:      logger,
	})

	market := newMarketService(marketServiceDeps{
		Repos:         repos,
		Cache:         deps.Config.Cache,
		Market:        deps.Config.Market,
		Observability: observability,
		Logger:        logger,
	})

	return ServiceContainer{
		Auth:          auth,
		Market:        market,
		Observability: observability,
	}
}
