package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tradepro/ui-api/internal/data/pgxutil"
	"github.com/tradepro/ui-api/internal/domain/market"
)

type watchlistRow struct {
	UserID  string    `db:"user_id"`
	Ticker  string    `db:"ticker"`
	AddedAt time.Time `db:"added_at"`
}

// WatchlistRepo maintains the per-user watchlist panel entries.
type WatchlistRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewWatchlistRepo creates a new WatchlistRepo.
func NewWatchlistRepo(db *sql.DB) *WatchlistRepo {
	return &WatchlistRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// List returns the user's watchlist in the order symbols were added.
func (r *WatchlistRepo) List(ctx context.Context, userID string) ([]market.WatchlistEntry, error) {
	var rowsOut []watchlistRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT w.user_id, s.ticker, w.added_at
			FROM watchlists w
			JOIN symbols s ON s.id = w.symbol_id
			WHERE w.user_id = $1
			ORDER BY w.added_at ASC`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[watchlistRow])
		return err
	})
	if err != nil {
		return nil, err
	}

	entries := make([]market.WatchlistEntry, len(rowsOut))
	for i, row := range rowsOut {
		entries[i] = market.WatchlistEntry{UserID: row.UserID, Ticker: row.Ticker, AddedAt: row.AddedAt}
	}
	return entries, nil
}

// Add puts a symbol on the user's watchlist. Duplicates surface as
// ErrWatchlistEntryExists, unknown tickers as ErrSymbolNotFound.
func (r *WatchlistRepo) Add(ctx context.Context, userID, ticker string) (market.WatchlistEntry, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	addedAt := r.timeProvider.Now().UTC()

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			INSERT INTO watchlists (user_id, symbol_id, added_at)
			SELECT $1, id, $3 FROM symbols WHERE ticker = $2`,
			userID, ticker, addedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrSymbolNotFound
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return market.WatchlistEntry{}, ErrWatchlistEntryExists
		}
		return market.WatchlistEntry{}, err
	}
	return market.WatchlistEntry{UserID: userID, Ticker: ticker, AddedAt: addedAt}, nil
}

// Remove takes a symbol off the user's watchlist. Removing an absent entry
// is not an error.
func (r *WatchlistRepo) Remove(ctx context.Context, userID, ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			DELETE FROM watchlists w
			USING symbols s
			WHERE w.symbol_id = s.id AND w.user_id = $1 AND s.ticker = $2`,
			userID, ticker)
		return err
	})
}
