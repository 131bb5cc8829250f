package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alkhair/demand-analytics/internal/domain"
)

func TestMemoryMarketShareCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryMarketShareCache()

	_, ok, err := c.Get(ctx, "Acme", 70)
	require.NoError(t, err)
	assert.False(t, ok)

	want := &domain.MarketShareResult{CustomerName: "Acme", Percent: 70, TotalQuantity: 100}
	require.NoError(t, c.Set(ctx, "Acme", 70, want))

	got, ok, err := c.Get(ctx, "Acme", 70)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// Keys are case-insensitive on the customer name.
	_, ok, err = c.Get(ctx, "acme", 70)
	require.NoError(t, err)
	assert.True(t, ok)

	// Different percent is a different entry.
	_, ok, err = c.Get(ctx, "Acme", 50)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.InvalidateAll(ctx))
	_, ok, err = c.Get(ctx, "Acme", 70)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryOrderCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryOrderCache()

	want := &domain.OrderResult{Summary: domain.OrderSummary{Date: "2025-01-05", Items: 3}}
	require.NoError(t, c.Set(ctx, "2025-01-05", "", want))

	got, ok, err := c.Get(ctx, "2025-01-05", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Summary.Items)

	_, ok, err = c.Get(ctx, "2025-01-12", "")
	require.NoError(t, err)
	assert.False(t, ok)
}
