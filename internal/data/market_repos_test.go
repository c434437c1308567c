package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepro/ui-api/internal/domain/market"
	"github.com/tradepro/ui-api/internal/testutil"
)

func seedTestSymbol(t *testing.T, db *sql.DB, ticker string) market.Symbol {
	t.Helper()
	repo := NewSymbolRepo(db)
	require.NoError(t, repo.Upsert(context.Background(), market.Symbol{
		Ticker:   ticker,
		Name:     ticker + " Test Corp",
		Exchange: "NASDAQ",
		Active:   true,
	}))
	sym, err := repo.GetByTicker(context.Background(), ticker)
	require.NoError(t, err)
	return sym
}

func TestSymbolRepo_Upsert_List_Get(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewSymbolRepo(db)

		require.NoError(t, repo.Upsert(ctx, market.Symbol{Ticker: "aapl", Name: "Apple Inc", Active: true}))
		require.NoError(t, repo.Upsert(ctx, market.Symbol{Ticker: "MSFT", Name: "Microsoft", Active: true}))
		require.NoError(t, repo.Upsert(ctx, market.Symbol{Ticker: "DEAD", Name: "Delisted", Active: false}))

		// List serves only active symbols, ordered by ticker.
		symbols, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, symbols, 2)
		assert.Equal(t, "AAPL", symbols[0].Ticker, "tickers should be stored uppercased")
		assert.Equal(t, "MSFT", symbols[1].Ticker)

		// Upsert keyed by ticker updates in place.
		require.NoError(t, repo.Upsert(ctx, market.Symbol{Ticker: "AAPL", Name: "Apple Inc.", Active: true}))
		got, err := repo.GetByTicker(ctx, "aapl")
		require.NoError(t, err)
		assert.Equal(t, "Apple Inc.", got.Name)

		_, err = repo.GetByTicker(ctx, "NOPE")
		assert.ErrorIs(t, err, ErrSymbolNotFound)
	})
}

func TestPriceRepo_Record_LatestQuote(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewPriceRepo(db)
		seedTestSymbol(t, db, "SPY")

		older := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
		newer := older.Add(time.Minute)
		require.NoError(t, repo.Record(ctx, market.Quote{
			Ticker: "SPY", Bid: 475.10, Ask: 475.12, Last: 475.11, Volume: 1000, AsOf: older,
		}))
		require.NoError(t, repo.Record(ctx, market.Quote{
			Ticker: "spy", Bid: 475.20, Ask: 475.22, Last: 475.21, Volume: 1200, AsOf: newer,
		}))

		q, err := repo.LatestQuote(ctx, "spy")
		require.NoError(t, err)
		assert.Equal(t, "SPY", q.Ticker)
		assert.InDelta(t, 475.21, q.Last, 0.0001)
		assert.True(t, q.AsOf.Equal(newer))

		// No rows yet for a known symbol.
		seedTestSymbol(t, db, "TSLA")
		_, err = repo.LatestQuote(ctx, "TSLA")
		assert.ErrorIs(t, err, ErrQuoteNotFound)

		// Unknown ticker on Record.
		err = repo.Record(ctx, market.Quote{Ticker: "NOPE", Last: 1})
		assert.ErrorIs(t, err, ErrSymbolNotFound)
	})
}

func TestWatchlistRepo_Add_List_Remove(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewWatchlistRepo(db)
		user := createTestUser(t, db, fmt.Sprintf("watch-%d@example.com", time.Now().UnixNano()))
		seedTestSymbol(t, db, "AAPL")
		seedTestSymbol(t, db, "MSFT")

		entry, err := repo.Add(ctx, user.ID, "aapl")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", entry.Ticker)
		assert.Equal(t, user.ID, entry.UserID)
		assert.False(t, entry.AddedAt.IsZero())

		_, err = repo.Add(ctx, user.ID, "MSFT")
		require.NoError(t, err)

		// duplicate
		_, err = repo.Add(ctx, user.ID, "AAPL")
		assert.ErrorIs(t, err, ErrWatchlistEntryExists)

		// unknown symbol
		_, err = repo.Add(ctx, user.ID, "NOPE")
		assert.ErrorIs(t, err, ErrSymbolNotFound)

		entries, err := repo.List(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		require.NoError(t, repo.Remove(ctx, user.ID, "AAPL"))
		// removing an absent entry is a no-op
		require.NoError(t, repo.Remove(ctx, user.ID, "AAPL"))

		entries, err = repo.List(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "MSFT", entries[0].Ticker)
	})
}

func TestAccountStatsRepo_Upsert_Get(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountStatsRepo(db)
		user := createTestUser(t, db, fmt.Sprintf("stats-%d@example.com", time.Now().UnixNano()))

		_, err := repo.Get(ctx, user.ID)
		assert.ErrorIs(t, err, ErrAccountStatsNotFound)

		require.NoError(t, repo.Upsert(ctx, market.AccountStats{
			UserID: user.ID, Balance: 25000, Equity: 25750.50, Margin: 1200, FreeMargin: 24550.50, OpenPL: 750.50,
		}))

		stats, err := repo.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.InDelta(t, 25750.50, stats.Equity, 0.0001)
		assert.False(t, stats.UpdatedAt.IsZero())

		// Upsert replaces the row.
		require.NoError(t, repo.Upsert(ctx, market.AccountStats{UserID: user.ID, Balance: 30000}))
		stats, err = repo.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.InDelta(t, 30000, stats.Balance, 0.0001)
		assert.Zero(t, stats.OpenPL)
	})
}
