package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// User repository sentinels.
	ErrUserNotFound    = errors.New("user not found")
	ErrUserEmailExists = errors.New("user email already exists")

	// Market repository sentinels.
	ErrSymbolNotFound       = errors.New("symbol not found")
	ErrQuoteNotFound        = errors.New("quote not found")
	ErrWatchlistEntryExists = errors.New("symbol already on watchlist")
	ErrAccountStatsNotFound = errors.New("account stats not found")
)
