package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tradepro/ui-api/internal/domain/market"
)

// QuoteCache caches the latest quote per ticker with a short TTL so the
// watchlist panel does not hammer the price store on every poll.
type QuoteCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// DefaultQuoteTTL bounds how stale a cached quote may be.
const DefaultQuoteTTL = 5 * time.Second

// NewQuoteCache creates a quote cache. A non-positive ttl falls back to
// DefaultQuoteTTL.
func NewQuoteCache(client redis.UniversalClient, ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	return &QuoteCache{
		client: client,
		prefix: "quote:",
		ttl:    ttl,
	}
}

// Get returns the cached quote for ticker. The second return is false on a
// cache miss; errors are reserved for transport or decode failures.
func (c *QuoteCache) Get(ctx context.Context, ticker string) (market.Quote, bool, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return market.Quote{}, false, nil
	}

	data, err := c.client.Get(ctx, c.prefix+ticker).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return market.Quote{}, false, nil
		}
		return market.Quote{}, false, fmt.Errorf("redis get quote: %w", err)
	}

	var q market.Quote
	if unmarshalErr := json.Unmarshal([]byte(data), &q); unmarshalErr != nil {
		return market.Quote{}, false, fmt.Errorf("unmarshal quote: %w", unmarshalErr)
	}
	return q, true, nil
}

// Set stores q under its ticker for the cache TTL.
func (c *QuoteCache) Set(ctx context.Context, q market.Quote) error {
	ticker := strings.ToUpper(strings.TrimSpace(q.Ticker))
	if ticker == "" {
		return errors.New("quote ticker cannot be empty")
	}
	q.Ticker = ticker

	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	return c.client.Set(ctx, c.prefix+ticker, data, c.ttl).Err()
}
