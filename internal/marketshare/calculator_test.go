// internal/marketshare/calculator_test.go
package marketshare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alkhair/demand-analytics/internal/cache"
	"github.com/alkhair/demand-analytics/internal/domain"
)

func row(date, customer, item string, qty float64) domain.WeeklySalesRecord {
	return domain.WeeklySalesRecord{
		Date:          date,
		CustomerID:    "ID-" + customer,
		CustomerName:  customer,
		ItemCode:      item,
		ItemName:      "Name " + item,
		TotalQuantity: qty,
	}
}

func paretoRows() []domain.WeeklySalesRecord {
	return []domain.WeeklySalesRecord{
		row("2025-06-01", "Acme", "A", 50),
		row("2025-06-01", "Acme", "B", 30),
		row("2025-06-01", "Acme", "C", 20),
	}
}

func newCalculator() *Calculator {
	return NewCalculator(cache.NewMemoryMarketShareCache())
}

func TestShareMinimalPrefix(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator()

	got, err := calc.Share(ctx, paretoRows(), "Acme", 70)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "A", got.Items[0].ItemCode)
	assert.Equal(t, "B", got.Items[1].ItemCode)
	assert.InDelta(t, 80, got.Items[1].CumulativePct, 1e-9)

	got, err = calc.Share(ctx, paretoRows(), "Acme", 50)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "A", got.Items[0].ItemCode)
}

func TestShareActiveWindowExcludesStaleItems(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator()

	rows := []domain.WeeklySalesRecord{
		// Last bought well over six months before the latest week.
		row("2024-01-07", "Acme", "OLD", 1000),
		row("2025-06-01", "Acme", "A", 10),
	}

	got, err := calc.Share(ctx, rows, "Acme", 100)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ActiveItems)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "A", got.Items[0].ItemCode)
	assert.Equal(t, 10.0, got.TotalQuantity)
}

func TestShareIgnoresZeroQuantityWindowRows(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator()

	rows := []domain.WeeklySalesRecord{
		// DEAD's only in-window row is a zero; its volume is all stale.
		row("2024-01-07", "Acme", "DEAD", 1000),
		row("2025-06-01", "Acme", "DEAD", 0),
		row("2025-06-01", "Acme", "A", 10),
	}

	got, err := calc.Share(ctx, rows, "Acme", 100)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ActiveItems)
	assert.Equal(t, 10.0, got.TotalQuantity)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "A", got.Items[0].ItemCode)
}

func TestShareMagnitudesUseFullHistory(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator()

	rows := []domain.WeeklySalesRecord{
		// A is active and has deep history; B is active but small.
		row("2024-01-07", "Acme", "A", 500),
		row("2025-06-01", "Acme", "A", 1),
		row("2025-06-01", "Acme", "B", 100),
	}

	got, err := calc.Share(ctx, rows, "Acme", 80)
	require.NoError(t, err)
	require.NotEmpty(t, got.Items)
	assert.Equal(t, "A", got.Items[0].ItemCode)
	assert.Equal(t, 501.0, got.Items[0].TotalQuantity)
	assert.Equal(t, 601.0, got.TotalQuantity)
}

func TestShareUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator()

	got, err := calc.Share(ctx, paretoRows(), "Nobody", 70)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0.0, got.TotalQuantity)
}

func TestShareCachesPerCustomerAndPercent(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator()

	first, err := calc.Share(ctx, paretoRows(), "Acme", 70)
	require.NoError(t, err)

	// Different data, same key: the cached breakdown is returned until
	// invalidated.
	second, err := calc.Share(ctx, nil, "Acme", 70)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, calc.InvalidateAll(ctx))
	third, err := calc.Share(ctx, nil, "Acme", 70)
	require.NoError(t, err)
	assert.Empty(t, third.Items)
}
