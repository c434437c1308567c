package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tradepro/ui-api/internal/data/database"
	"github.com/tradepro/ui-api/internal/data/pgxutil"
	"github.com/tradepro/ui-api/internal/domain/market"
)

type symbolRow struct {
	ID       string `db:"id"`
	Ticker   string `db:"ticker"`
	Name     string `db:"name"`
	Exchange string `db:"exchange"`
	Active   bool   `db:"active"`
}

func (s symbolRow) domain() market.Symbol {
	return market.Symbol{
		ID:       s.ID,
		Ticker:   s.Ticker,
		Name:     s.Name,
		Exchange: s.Exchange,
		Active:   s.Active,
	}
}

// SymbolRepo provides database operations for instruments.
type SymbolRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSymbolRepo creates a new SymbolRepo.
func NewSymbolRepo(db *sql.DB) *SymbolRepo {
	return &SymbolRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// List retrieves active symbols ordered by ticker.
func (r *SymbolRepo) List(ctx context.Context) ([]market.Symbol, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("symbols",
		database.WithColumns("id", "ticker", "name", "exchange", "active"),
		database.WithCondition(database.WhereCond("active", database.Equal, true)),
		database.WithOrderBy("ticker", "ASC"),
	))

	var rowsOut []symbolRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[symbolRow])
		return err
	})
	if err != nil {
		return nil, err
	}

	symbols := make([]market.Symbol, len(rowsOut))
	for i, row := range rowsOut {
		symbols[i] = row.domain()
	}
	return symbols, nil
}

// GetByTicker retrieves one symbol.
func (r *SymbolRepo) GetByTicker(ctx context.Context, ticker string) (market.Symbol, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	var out symbolRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT id, ticker, name, exchange, active FROM symbols WHERE ticker = $1`, ticker)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[symbolRow])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return market.Symbol{}, ErrSymbolNotFound
	}
	if err != nil {
		return market.Symbol{}, err
	}
	return out.domain(), nil
}

// Upsert inserts or updates a symbol keyed by ticker.
func (r *SymbolRepo) Upsert(ctx context.Context, sym market.Symbol) error {
	ticker := strings.ToUpper(strings.TrimSpace(sym.Ticker))
	if ticker == "" {
		return errors.New("symbol ticker is required")
	}
	id := sym.ID
	if id == "" {
		id = uuid.NewString()
	}

	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO symbols (id, ticker, name, exchange, active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (ticker) DO UPDATE SET
				name = EXCLUDED.name,
				exchange = EXCLUDED.exchange,
				active = EXCLUDED.active,
				updated_at = EXCLUDED.created_at`,
			id, ticker, strings.TrimSpace(sym.Name), strings.TrimSpace(sym.Exchange),
			sym.Active, r.timeProvider.Now().UTC())
		return err
	})
}
