package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tradepro/ui-api/internal/data/pgxutil"
	"github.com/tradepro/ui-api/internal/domain/market"
)

type priceRow struct {
	Ticker        string    `db:"ticker"`
	Bid           float64   `db:"bid"`
	Ask           float64   `db:"ask"`
	Last          float64   `db:"last"`
	Change        float64   `db:"change"`
	ChangePercent float64   `db:"change_percent"`
	Volume        int64     `db:"volume"`
	AsOf          time.Time `db:"as_of"`
}

func (p priceRow) quote() market.Quote {
	return market.Quote{
		Ticker:        p.Ticker,
		Bid:           p.Bid,
		Ask:           p.Ask,
		Last:          p.Last,
		Change:        p.Change,
		ChangePercent: p.ChangePercent,
		Volume:        p.Volume,
		AsOf:          p.AsOf,
	}
}

// PriceRepo stores quote history and serves the most recent row per symbol.
// When the upstream feed is down, the latest stored row is what the dashboard
// replays.
type PriceRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPriceRepo creates a new PriceRepo.
func NewPriceRepo(db *sql.DB) *PriceRepo {
	return &PriceRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// LatestQuote returns the most recent price row for ticker.
func (r *PriceRepo) LatestQuote(ctx context.Context, ticker string) (market.Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	var out priceRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT s.ticker, p.bid, p.ask, p.last, p.change, p.change_percent, p.volume, p.as_of
			FROM prices p
			JOIN symbols s ON s.id = p.symbol_id
			WHERE s.ticker = $1
			ORDER BY p.as_of DESC
			LIMIT 1`, ticker)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[priceRow])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return market.Quote{}, ErrQuoteNotFound
	}
	if err != nil {
		return market.Quote{}, err
	}
	return out.quote(), nil
}

// Record appends a price row for the quote's symbol.
func (r *PriceRepo) Record(ctx context.Context, q market.Quote) error {
	ticker := strings.ToUpper(strings.TrimSpace(q.Ticker))
	if ticker == "" {
		return errors.New("quote ticker is required")
	}
	asOf := q.AsOf
	if asOf.IsZero() {
		asOf = r.timeProvider.Now().UTC()
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			INSERT INTO prices (symbol_id, bid, ask, last, change, change_percent, volume, as_of)
			SELECT id, $2, $3, $4, $5, $6, $7, $8 FROM symbols WHERE ticker = $1`,
			ticker, q.Bid, q.Ask, q.Last, q.Change, q.ChangePercent, q.Volume, asOf)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrSymbolNotFound
		}
		return nil
	})
	return err
}
