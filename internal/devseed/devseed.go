// Package devseed populates a development database with demo accounts,
// instruments, and price history so the dashboard is usable immediately
// after db-seed.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tradepro/ui-api/internal/data"
	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
	"github.com/tradepro/ui-api/internal/domain/market"
)

// DemoPassword is the password every seeded account gets.
const DemoPassword = "password123"

// Services bundles the repositories needed for development seeding.
type Services struct {
	DB         *sql.DB
	users      *data.UserRepo
	symbols    *data.SymbolRepo
	prices     *data.PriceRepo
	watchlists *data.WatchlistRepo
	stats      *data.AccountStatsRepo
}

// NewServices constructs the repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:         db,
		users:      data.NewUserRepo(db),
		symbols:    data.NewSymbolRepo(db),
		prices:     data.NewPriceRepo(db),
		watchlists: data.NewWatchlistRepo(db),
		stats:      data.NewAccountStatsRepo(db),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0

	users, userFailures := seedUsers(ctx, svcs.users, logger)
	failures += userFailures

	failures += seedSymbols(ctx, svcs.symbols, logger)
	failures += seedPrices(ctx, svcs.prices, logger)
	failures += seedWatchlists(ctx, svcs.watchlists, users, logger)
	failures += seedAccountStats(ctx, svcs.stats, users, logger)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

type demoUser struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	Watchlist []string
	Stats     market.AccountStats
}

func demoUsers() []demoUser {
	return []demoUser{
		{
			Email:     "test@example.com",
			FirstName: "Taylor",
			LastName:  "Trader",
			Role:      string(domainauth.RoleUser),
			Watchlist: []string{"AAPL", "MSFT", "SPY"},
			Stats: market.AccountStats{
				Balance:    25000,
				Equity:     25410.55,
				Margin:     1200,
				FreeMargin: 24210.55,
				OpenPL:     410.55,
			},
		},
		{
			Email:     "admin@tradepro.com",
			FirstName: "Avery",
			LastName:  "Ops",
			Role:      string(domainauth.RoleAdmin),
			Watchlist: []string{"SPY"},
			Stats: market.AccountStats{
				Balance: 100000,
				Equity:  100000,
			},
		},
	}
}

// seedUsers creates the demo accounts and returns email -> user ID for the
// later per-user seeding steps.
func seedUsers(ctx context.Context, repo *data.UserRepo, logger *slog.Logger) (map[string]string, int) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "hash demo password", "error", err)
		}
		return nil, 1
	}

	ids := make(map[string]string, len(demoUsers()))
	failures := 0
	for _, u := range demoUsers() {
		acct, createErr := repo.Create(ctx, data.CreateUserParams{
			Email:         u.Email,
			PasswordHash:  string(hash),
			FirstName:     u.FirstName,
			LastName:      u.LastName,
			Role:          u.Role,
			EmailVerified: true,
		})
		switch {
		case createErr == nil:
			ids[u.Email] = acct.ID
			if logger != nil {
				logger.InfoContext(ctx, "seeded user", "email", u.Email, "role", u.Role)
			}
		case errors.Is(createErr, data.ErrUserEmailExists):
			existing, getErr := repo.AccountByEmail(ctx, u.Email)
			if getErr != nil {
				failures++
				continue
			}
			ids[u.Email] = existing.ID
			if logger != nil {
				logger.InfoContext(ctx, "user already seeded", "email", u.Email)
			}
		default:
			failures++
			if logger != nil {
				logger.ErrorContext(ctx, "seed user failed", "email", u.Email, "error", createErr)
			}
		}
	}
	return ids, failures
}

func demoSymbols() []market.Symbol {
	return []market.Symbol{
		{Ticker: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Active: true},
		{Ticker: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", Active: true},
		{Ticker: "GOOGL", Name: "Alphabet Inc.", Exchange: "NASDAQ", Active: true},
		{Ticker: "AMZN", Name: "Amazon.com Inc.", Exchange: "NASDAQ", Active: true},
		{Ticker: "TSLA", Name: "Tesla Inc.", Exchange: "NASDAQ", Active: true},
		{Ticker: "SPY", Name: "SPDR S&P 500 ETF Trust", Exchange: "NYSEARCA", Active: true},
		{Ticker: "EURUSD", Name: "Euro / US Dollar", Exchange: "FX", Active: true},
	}
}

func seedSymbols(ctx context.Context, repo *data.SymbolRepo, logger *slog.Logger) int {
	failures := 0
	for _, sym := range demoSymbols() {
		if err := repo.Upsert(ctx, sym); err != nil {
			failures++
			if logger != nil {
				logger.ErrorContext(ctx, "seed symbol failed", "ticker", sym.Ticker, "error", err)
			}
		}
	}
	if logger != nil {
		logger.InfoContext(ctx, "seeded symbols", "count", len(demoSymbols())-failures)
	}
	return failures
}

func demoQuotes(asOf time.Time) []market.Quote {
	return []market.Quote{
		{Ticker: "AAPL", Bid: 189.90, Ask: 189.95, Last: 189.92, Change: 1.12, ChangePercent: 0.59, Volume: 48_210_000, AsOf: asOf},
		{Ticker: "MSFT", Bid: 412.10, Ask: 412.22, Last: 412.15, Change: -2.05, ChangePercent: -0.49, Volume: 19_870_000, AsOf: asOf},
		{Ticker: "GOOGL", Bid: 164.55, Ask: 164.60, Last: 164.58, Change: 0.85, ChangePercent: 0.52, Volume: 22_340_000, AsOf: asOf},
		{Ticker: "AMZN", Bid: 178.02, Ask: 178.08, Last: 178.05, Change: 0.44, ChangePercent: 0.25, Volume: 31_560_000, AsOf: asOf},
		{Ticker: "TSLA", Bid: 244.80, Ask: 244.92, Last: 244.85, Change: -5.31, ChangePercent: -2.12, Volume: 92_400_000, AsOf: asOf},
		{Ticker: "SPY", Bid: 552.30, Ask: 552.34, Last: 552.32, Change: 1.98, ChangePercent: 0.36, Volume: 61_120_000, AsOf: asOf},
		{Ticker: "EURUSD", Bid: 1.0842, Ask: 1.0844, Last: 1.0843, Change: 0.0012, ChangePercent: 0.11, Volume: 0, AsOf: asOf},
	}
}

func seedPrices(ctx context.Context, repo *data.PriceRepo, logger *slog.Logger) int {
	failures := 0
	for _, q := range demoQuotes(time.Now().UTC()) {
		if err := repo.Record(ctx, q); err != nil {
			failures++
			if logger != nil {
				logger.ErrorContext(ctx, "seed price failed", "ticker", q.Ticker, "error", err)
			}
		}
	}
	return failures
}

func seedWatchlists(ctx context.Context, repo *data.WatchlistRepo, users map[string]string, logger *slog.Logger) int {
	failures := 0
	for _, u := range demoUsers() {
		userID, ok := users[u.Email]
		if !ok {
			continue
		}
		for _, ticker := range u.Watchlist {
			_, err := repo.Add(ctx, userID, ticker)
			if err != nil && !errors.Is(err, data.ErrWatchlistEntryExists) {
				failures++
				if logger != nil {
					logger.ErrorContext(ctx, "seed watchlist failed",
						"email", u.Email, "ticker", ticker, "error", err)
				}
			}
		}
	}
	return failures
}

func seedAccountStats(ctx context.Context, repo *data.AccountStatsRepo, users map[string]string, logger *slog.Logger) int {
	failures := 0
	for _, u := range demoUsers() {
		userID, ok := users[u.Email]
		if !ok {
			continue
		}
		stats := u.Stats
		stats.UserID = userID
		if err := repo.Upsert(ctx, stats); err != nil {
			failures++
			if logger != nil {
				logger.ErrorContext(ctx, "seed account stats failed", "email", u.Email, "error", err)
			}
		}
	}
	return failures
}
