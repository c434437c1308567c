// Package mocks provides mock implementations for testing the trading dashboard services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the market data repository interfaces. Auth ports use the hand-written
// doubles in internal/mocks/auth instead.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockSymbolRepository(ctrl)
//	mockRepo.EXPECT().List(gomock.Any()).Return(symbols, nil)
package mocks

// Generate mock for SymbolRepository interface from internal/ports.
// This creates MockSymbolRepository with List, GetByTicker, Upsert.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=symbol_repository_mock.go github.com/tradepro/ui-api/internal/ports SymbolRepository

// Generate mock for PriceRepository interface from internal/ports.
// This creates MockPriceRepository with LatestQuote, Record.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=price_repository_mock.go github.com/tradepro/ui-api/internal/ports PriceRepository

// Generate mock for QuoteFeed interface from internal/ports.
// This creates MockQuoteFeed with Fetch.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=quote_feed_mock.go github.com/tradepro/ui-api/internal/ports QuoteFeed

// Generate mock for WatchlistRepository interface from internal/ports.
// This creates MockWatchlistRepository with List, Add, Remove.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=watchlist_repository_mock.go github.com/tradepro/ui-api/internal/ports WatchlistRepository

// Generate mock for AccountStatsRepository interface from internal/ports.
// This creates MockAccountStatsRepository with Get, Upsert.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=account_stats_repository_mock.go github.com/tradepro/ui-api/internal/ports AccountStatsRepository
