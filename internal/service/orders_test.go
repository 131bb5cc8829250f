package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alkhair/demand-analytics/internal/cache"
	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
)

func orderService(weekly []domain.WeeklySalesRecord, predictions []domain.PredictionRecord) *OrderService {
	store := dataset.NewStore()
	store.Replace(weekly, nil, predictions, nil)
	return NewOrderService(store, cache.NewMemoryOrderCache())
}

func TestOrderDatesSnapToPriorSunday(t *testing.T) {
	svc := orderService(nil, []domain.PredictionRecord{
		predRow("2025-01-05", "Acme", "SKU-1", "Test", 1, 1),  // Sunday keeps
		predRow("2025-01-08", "Acme", "SKU-1", "Test", 1, 1),  // Wednesday snaps back
		predRow("2025-01-12", "Acme", "SKU-1", "Forecast", 0, 2),
	})

	dates := svc.Dates("")
	assert.Equal(t, []string{"2025-01-05", "2025-01-12"}, dates)

	forecastOnly := svc.Dates("Forecast")
	assert.Equal(t, []string{"2025-01-12"}, forecastOnly)
}

func TestOrderCustomersUniqueSorted(t *testing.T) {
	svc := orderService(nil, []domain.PredictionRecord{
		predRow("2025-01-05", "Zeta", "SKU-1", "Test", 1, 1),
		predRow("2025-01-05", "Acme", "SKU-1", "Test", 1, 1),
		predRow("2025-01-12", "Zeta", "SKU-1", "Test", 1, 1),
	})

	assert.Equal(t, []string{"Acme", "Zeta"}, svc.Customers())
}

func TestRecommendedUsesCache(t *testing.T) {
	weekly := []domain.WeeklySalesRecord{
		weeklyRow("2024-12-22", "Acme", "SKU-1", 10),
		weeklyRow("2024-12-29", "Acme", "SKU-1", 12),
	}
	predictions := []domain.PredictionRecord{
		predRow("2025-01-05", "Acme", "SKU-1", "Test", 10, 11),
	}
	svc := orderService(weekly, predictions)

	ctx := context.Background()
	first, err := svc.Recommended(ctx, "2025-01-05", "", true)
	require.NoError(t, err)
	require.Len(t, first.Orders, 1)

	// Swap in an empty store; the cached result must still be served.
	svc.store.Replace(nil, nil, nil, nil)

	second, err := svc.Recommended(ctx, "2025-01-05", "", true)
	require.NoError(t, err)
	assert.Equal(t, first.Summary, second.Summary)

	// Bypassing the cache now fails against the empty dataset.
	_, err = svc.Recommended(ctx, "2025-01-05", "", false)
	assert.Error(t, err)
}

func TestRecommendedSnapsTargetDate(t *testing.T) {
	weekly := []domain.WeeklySalesRecord{
		weeklyRow("2024-12-29", "Acme", "SKU-1", 10),
	}
	predictions := []domain.PredictionRecord{
		predRow("2025-01-05", "Acme", "SKU-1", "Test", 10, 11),
	}
	svc := orderService(weekly, predictions)

	// Wednesday Jan 1 rounds forward to Sunday Jan 5.
	result, err := svc.Recommended(context.Background(), "2025-01-01", "", false)

	require.NoError(t, err)
	assert.Equal(t, "2025-01-05", result.Summary.Date)
}

func TestClearCacheForcesRecompute(t *testing.T) {
	weekly := []domain.WeeklySalesRecord{
		weeklyRow("2024-12-29", "Acme", "SKU-1", 10),
	}
	predictions := []domain.PredictionRecord{
		predRow("2025-01-05", "Acme", "SKU-1", "Test", 10, 11),
	}
	svc := orderService(weekly, predictions)

	ctx := context.Background()
	_, err := svc.Recommended(ctx, "2025-01-05", "", true)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCache(ctx))
	svc.store.Replace(nil, nil, nil, nil)

	_, err = svc.Recommended(ctx, "2025-01-05", "", true)
	assert.Error(t, err)
}
