package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tradepro/ui-api/internal/data"
	"github.com/tradepro/ui-api/internal/domain/market"
	apperrors "github.com/tradepro/ui-api/internal/errors"
	"github.com/tradepro/ui-api/internal/ports"
)

// MarketServiceOptions groups dependencies for MarketService.
//
// Cache and Feed are optional: without a cache every quote read goes to the
// feed or price store, and without a feed quotes are served from the last
// stored price only.
type MarketServiceOptions struct {
	Symbols    ports.SymbolRepository
	Prices     ports.PriceRepository
	Watchlists ports.WatchlistRepository
	Accounts   ports.AccountStatsRepository
	Cache      ports.QuoteCache
	Feed       ports.QuoteFeed
	Metrics    metricsSink
}

// MarketService serves symbols, quotes, watchlists, and account summaries.
type MarketService struct {
	symbols    ports.SymbolRepository
	prices     ports.PriceRepository
	watchlists ports.WatchlistRepository
	accounts   ports.AccountStatsRepository
	cache      ports.QuoteCache
	feed       ports.QuoteFeed
	metrics    metricsSink
}

// NewMarketService constructs a new MarketService.
func NewMarketService(opts MarketServiceOptions) *MarketService {
	return &MarketService{
		symbols:    opts.Symbols,
		prices:     opts.Prices,
		watchlists: opts.Watchlists,
		accounts:   opts.Accounts,
		cache:      opts.Cache,
		feed:       opts.Feed,
		metrics:    opts.Metrics,
	}
}

// ListSymbols returns the active instrument list.
func (s *MarketService) ListSymbols(ctx context.Context) ([]market.Symbol, error) {
	symbols, err := s.symbols.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	return symbols, nil
}

// GetQuote returns a quote for the ticker, cache-aside: cache first, then the
// upstream feed (recording and caching the result), then the last stored
// price when the feed is unavailable.
func (s *MarketService) GetQuote(ctx context.Context, ticker string) (market.Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return market.Quote{}, apperrors.ValidationField("ticker", "Ticker is required")
	}

	if s.cache != nil {
		q, ok, err := s.cache.Get(ctx, ticker)
		if err == nil && ok {
			s.countQuote("cache_hit")
			return q, nil
		}
		// Cache failures degrade to a feed read.
	}

	if s.feed != nil {
		q, err := s.feed.Fetch(ctx, ticker)
		switch {
		case err == nil:
			s.countQuote("feed")
			s.storeQuote(ctx, q)
			return q, nil
		case apperrors.IsNetwork(err):
			// Feed unreachable: fall through to the last stored price.
			s.countQuote("feed_unreachable")
		default:
			return market.Quote{}, fmt.Errorf("fetch quote for %s: %w", ticker, err)
		}
	}

	q, err := s.prices.LatestQuote(ctx, ticker)
	if err != nil {
		if errors.Is(err, data.ErrQuoteNotFound) || errors.Is(err, data.ErrSymbolNotFound) {
			return market.Quote{}, apperrors.NotFoundf("No quote available for %s", ticker)
		}
		return market.Quote{}, fmt.Errorf("latest stored quote for %s: %w", ticker, err)
	}
	s.countQuote("stored")
	return q, nil
}

// Watchlist returns the user's watchlist entries.
func (s *MarketService) Watchlist(ctx context.Context, userID string) ([]market.WatchlistEntry, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	entries, err := s.watchlists.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return entries, nil
}

// AddToWatchlist adds a symbol to the user's watchlist. Adding a symbol that
// is already present returns a conflict; an unknown ticker is not found.
func (s *MarketService) AddToWatchlist(ctx context.Context, userID, ticker string) (market.WatchlistEntry, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return market.WatchlistEntry{}, apperrors.ValidationField("ticker", "Ticker is required")
	}

	entry, err := s.watchlists.Add(ctx, userID, ticker)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrWatchlistEntryExists):
			return market.WatchlistEntry{}, apperrors.Conflictf("%s is already on the watchlist", ticker)
		case errors.Is(err, data.ErrSymbolNotFound):
			return market.WatchlistEntry{}, apperrors.NotFoundf("Unknown symbol %s", ticker)
		default:
			return market.WatchlistEntry{}, fmt.Errorf("add to watchlist: %w", err)
		}
	}
	return entry, nil
}

// RemoveFromWatchlist removes a symbol from the user's watchlist. Removing a
// symbol that is not on the list is a no-op.
func (s *MarketService) RemoveFromWatchlist(ctx context.Context, userID, ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return apperrors.ValidationField("ticker", "Ticker is required")
	}
	if err := s.watchlists.Remove(ctx, userID, ticker); err != nil {
		return fmt.Errorf("remove from watchlist: %w", err)
	}
	return nil
}

// AccountStats returns the account summary for the bottom bar. A user without
// stats yet gets a zero-value summary rather than an error.
func (s *MarketService) AccountStats(ctx context.Context, userID string) (market.AccountStats, error) {
	if userID == "" {
		return market.AccountStats{}, errors.New("user ID is required")
	}
	stats, err := s.accounts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrAccountStatsNotFound) {
			return market.AccountStats{UserID: userID}, nil
		}
		return market.AccountStats{}, fmt.Errorf("account stats: %w", err)
	}
	return stats, nil
}

// storeQuote records a fresh feed quote in the price history and cache.
// Failures are swallowed: the quote was already obtained and persistence is
// an optimization.
func (s *MarketService) storeQuote(ctx context.Context, q market.Quote) {
	if s.prices != nil {
		_ = s.prices.Record(ctx, q)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, q)
	}
}

func (s *MarketService) countQuote(source string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count("market.quote", 1, map[string]string{"source": source})
}

// WarmQuotes pulls a fresh quote for every listed symbol through the normal
// cache-aside path, priming the cache and price history. Symbols whose quote
// cannot be obtained are skipped; the count of warmed symbols is returned.
func (s *MarketService) WarmQuotes(ctx context.Context) (int, error) {
	symbols, err := s.symbols.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list symbols: %w", err)
	}

	var warmed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, sym := range symbols {
		g.Go(func() error {
			if _, qErr := s.GetQuote(ctx, sym.Ticker); qErr == nil {
				warmed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(warmed.Load()), err
	}
	return int(warmed.Load()), nil
}
