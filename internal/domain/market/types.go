// Package market contains domain types for the watchlist and quote panels:
// symbols, price quotes, watchlist entries, and per-account stats.
package market

import "time"

// Symbol is an instrument the dashboard can display.
type Symbol struct {
	ID       string `json:"id"`
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
	Active   bool   `json:"active"`
}

// Quote is the latest known price snapshot for a symbol.
type Quote struct {
	Ticker        string    `json:"ticker"`
	Bid           float64   `json:"bid"`
	Ask           float64   `json:"ask"`
	Last          float64   `json:"last"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	AsOf          time.Time `json:"as_of"`
}

// WatchlistEntry ties a user to a symbol on their watchlist panel.
type WatchlistEntry struct {
	UserID  string    `json:"user_id"`
	Ticker  string    `json:"ticker"`
	AddedAt time.Time `json:"added_at"`
}

// AccountStats is the bottom-bar summary for a trading account.
type AccountStats struct {
	UserID     string    `json:"user_id"`
	Balance    float64   `json:"balance"`
	Equity     float64   `json:"equity"`
	Margin     float64   `json:"margin"`
	FreeMargin float64   `json:"free_margin"`
	OpenPL     float64   `json:"open_pl"`
	UpdatedAt  time.Time `json:"updated_at"`
}
