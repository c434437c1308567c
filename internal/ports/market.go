package ports

import (
	"context"

	"github.com/tradepro/ui-api/internal/domain/market"
)

// SymbolRepository reads and maintains the instrument list.
type SymbolRepository interface {
	List(ctx context.Context) ([]market.Symbol, error)
	GetByTicker(ctx context.Context, ticker string) (market.Symbol, error)
	Upsert(ctx context.Context, sym market.Symbol) error
}

// PriceRepository stores price history and serves the latest row per symbol.
type PriceRepository interface {
	LatestQuote(ctx context.Context, ticker string) (market.Quote, error)
	Record(ctx context.Context, q market.Quote) error
}

// QuoteCache is a short-TTL cache in front of the price store and feed.
type QuoteCache interface {
	Get(ctx context.Context, ticker string) (market.Quote, bool, error)
	Set(ctx context.Context, q market.Quote) error
}

// QuoteFeed fetches a fresh quote from the upstream market data source.
type QuoteFeed interface {
	Fetch(ctx context.Context, ticker string) (market.Quote, error)
}

// WatchlistRepository maintains per-user watchlists.
type WatchlistRepository interface {
	List(ctx context.Context, userID string) ([]market.WatchlistEntry, error)
	Add(ctx context.Context, userID, ticker string) (market.WatchlistEntry, error)
	Remove(ctx context.Context, userID, ticker string) error
}

// AccountStatsRepository serves the bottom-bar account summary.
type AccountStatsRepository interface {
	Get(ctx context.Context, userID string) (market.AccountStats, error)
	Upsert(ctx context.Context, stats market.AccountStats) error
}
