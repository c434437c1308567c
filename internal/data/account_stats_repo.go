package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tradepro/ui-api/internal/data/pgxutil"
	"github.com/tradepro/ui-api/internal/domain/market"
)

type accountStatsRow struct {
	UserID     string    `db:"user_id"`
	Balance    float64   `db:"balance"`
	Equity     float64   `db:"equity"`
	Margin     float64   `db:"margin"`
	FreeMargin float64   `db:"free_margin"`
	OpenPL     float64   `db:"open_pl"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// AccountStatsRepo serves the bottom-bar account summary row.
type AccountStatsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAccountStatsRepo creates a new AccountStatsRepo.
func NewAccountStatsRepo(db *sql.DB) *AccountStatsRepo {
	return &AccountStatsRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Get returns the stats row for a user.
func (r *AccountStatsRepo) Get(ctx context.Context, userID string) (market.AccountStats, error) {
	var out accountStatsRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT user_id, balance, equity, margin, free_margin, open_pl, updated_at
			FROM accounts WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[accountStatsRow])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return market.AccountStats{}, ErrAccountStatsNotFound
	}
	if err != nil {
		return market.AccountStats{}, err
	}
	return market.AccountStats{
		UserID:     out.UserID,
		Balance:    out.Balance,
		Equity:     out.Equity,
		Margin:     out.Margin,
		FreeMargin: out.FreeMargin,
		OpenPL:     out.OpenPL,
		UpdatedAt:  out.UpdatedAt,
	}, nil
}

// Upsert writes the stats row for a user.
func (r *AccountStatsRepo) Upsert(ctx context.Context, stats market.AccountStats) error {
	if stats.UserID == "" {
		return errors.New("account stats user_id is required")
	}
	updatedAt := stats.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = r.timeProvider.Now().UTC()
	}

	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO accounts (user_id, balance, equity, margin, free_margin, open_pl, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id) DO UPDATE SET
				balance = EXCLUDED.balance,
				equity = EXCLUDED.equity,
				margin = EXCLUDED.margin,
				free_margin = EXCLUDED.free_margin,
				open_pl = EXCLUDED.open_pl,
				updated_at = EXCLUDED.updated_at`,
			stats.UserID, stats.Balance, stats.Equity, stats.Margin,
			stats.FreeMargin, stats.OpenPL, updatedAt)
		return err
	})
}
