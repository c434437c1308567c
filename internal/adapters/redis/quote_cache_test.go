package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradepro/ui-api/internal/domain/market"
)

func TestQuoteCache_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewQuoteCache(client, time.Minute)
	ctx := context.Background()

	quote := market.Quote{
		Ticker:        "AAPL",
		Bid:           189.10,
		Ask:           189.14,
		Last:          189.12,
		Change:        1.52,
		ChangePercent: 0.81,
		Volume:        1_203_400,
		AsOf:          time.Now().Truncate(time.Millisecond),
	}

	require.NoError(t, cache.Set(ctx, quote))

	got, ok, err := cache.Get(ctx, "AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, quote.Ticker, got.Ticker)
	assert.InDelta(t, quote.Last, got.Last, 1e-9)
	assert.Equal(t, quote.Volume, got.Volume)
}

func TestQuoteCache_TickerNormalized(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewQuoteCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, market.Quote{Ticker: " aapl ", Last: 1}))

	got, ok, err := cache.Get(ctx, "aapl")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AAPL", got.Ticker)
}

func TestQuoteCache_Miss(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewQuoteCache(client, time.Minute)

	_, ok, err := cache.Get(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuoteCache_TTLExpiry(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewQuoteCache(client, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, market.Quote{Ticker: "MSFT", Last: 400}))
	time.Sleep(200 * time.Millisecond)

	_, ok, err := cache.Get(ctx, "MSFT")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuoteCache_EmptyTickerRejected(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewQuoteCache(client, time.Minute)

	err := cache.Set(context.Background(), market.Quote{Last: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticker cannot be empty")
}
