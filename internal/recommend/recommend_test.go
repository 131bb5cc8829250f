// internal/recommend/recommend_test.go
package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alkhair/demand-analytics/internal/domain"
)

func weeklyHistory(customer, item string, quantities ...float64) []domain.WeeklySalesRecord {
	// Consecutive Sundays starting 2024-01-07.
	dates := sundays(len(quantities))
	rows := make([]domain.WeeklySalesRecord, len(quantities))
	for i, q := range quantities {
		rows[i] = domain.WeeklySalesRecord{
			Date:          dates[i],
			CustomerName:  customer,
			ItemCode:      item,
			ItemName:      "Name " + item,
			TotalQuantity: q,
		}
	}
	return rows
}

func sundays(n int) []string {
	out := make([]string, 0, n)
	days := []string{
		"2024-01-07", "2024-01-14", "2024-01-21", "2024-01-28",
		"2024-02-04", "2024-02-11", "2024-02-18", "2024-02-25",
		"2024-03-03", "2024-03-10", "2024-03-17", "2024-03-24",
	}
	for i := 0; i < n && i < len(days); i++ {
		out = append(out, days[i])
	}
	return out
}

func predRow(date, customer, item, split, confidence, pattern string, actual, predicted float64) domain.PredictionRecord {
	return domain.PredictionRecord{
		Date:          date,
		CustomerName:  customer,
		ItemCode:      item,
		ItemName:      "Name " + item,
		ActualQty:     actual,
		PredictedQty:  predicted,
		Confidence:    confidence,
		DemandPattern: pattern,
		DataSplit:     split,
	}
}

func TestGenerateSnapsToSunday(t *testing.T) {
	weekly := weeklyHistory("Acme", "S1", 5, 6, 7, 8)
	preds := []domain.PredictionRecord{
		predRow("2024-02-04", "Acme", "S1", "Test", "High", "Smooth", 8, 7),
	}

	// 2024-01-31 is a Wednesday; its week ends Sunday 2024-02-04.
	result, err := Generate(weekly, preds, "2024-01-31", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-04", result.Summary.Date)
	require.Len(t, result.Orders, 1)
}

func TestGenerateNoDataForDate(t *testing.T) {
	preds := []domain.PredictionRecord{
		predRow("2024-02-04", "Acme", "S1", "Test", "High", "Smooth", 8, 7),
	}

	_, err := Generate(nil, preds, "2025-06-01", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-06-01")
}

func TestGeneratePrefersTestOverForecast(t *testing.T) {
	weekly := weeklyHistory("Acme", "S1", 5, 6, 7, 8)
	preds := []domain.PredictionRecord{
		predRow("2024-02-04", "Acme", "S1", "Forecast", "High", "Smooth", 0, 99),
		predRow("2024-02-04", "Acme", "S1", "Test", "High", "Smooth", 8, 7),
		predRow("2024-02-04", "Acme", "S2", "Forecast", "High", "Smooth", 0, 3),
	}
	weekly = append(weekly, weeklyHistory("Acme", "S2", 1, 2, 3)...)

	result, err := Generate(weekly, preds, "2024-02-04", "")
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)

	byItem := map[string]domain.RecommendedOrder{}
	for _, o := range result.Orders {
		byItem[o.ItemCode] = o
	}
	assert.Equal(t, 8.0, byItem["S1"].ActualQty)
	assert.Equal(t, 7.0, byItem["S1"].PredictedQty)
	assert.Equal(t, 3.0, byItem["S2"].PredictedQty)
}

func TestGenerateTieredFilter(t *testing.T) {
	// NEVER has no purchase history; RARE has history but a sub-unit
	// prediction and under 10 buys; CORE has 10+ buys despite a sub-unit
	// prediction.
	weekly := weeklyHistory("Acme", "RARE", 1, 0, 0, 0)
	weekly = append(weekly, weeklyHistory("Acme", "CORE", 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)...)

	preds := []domain.PredictionRecord{
		predRow("2024-03-24", "Acme", "NEVER", "Forecast", "High", "Smooth", 0, 50),
		predRow("2024-03-24", "Acme", "RARE", "Forecast", "High", "Smooth", 0, 0.4),
		predRow("2024-03-24", "Acme", "CORE", "Forecast", "High", "Smooth", 0, 0.4),
	}

	result, err := Generate(weekly, preds, "2024-03-24", "")
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "CORE", result.Orders[0].ItemCode)
	assert.Equal(t, 12, result.Orders[0].BuyCount)
}

func TestBufferFor(t *testing.T) {
	cases := []struct {
		pattern    string
		confidence string
		cv         float64
		want       float64
	}{
		{"Smooth", "High", 0.5, 0.05},
		{"Smooth", "Medium", 0.5, 0.10},
		{"Intermittent", "High", 0.5, 0.20},
		{"Sparse", "High", 0.5, 0.05},
		{"Sparse", "Low", 0.5, 0.15},
		{"Intermittent", "Low", 1.5, 0.30},
		{"Smooth", "Medium", 1.5, 0.20},
	}
	for _, tc := range cases {
		got := bufferFor(tc.pattern, tc.confidence, tc.cv)
		assert.InDelta(t, tc.want, got, 1e-9, fmt.Sprintf("%s/%s cv=%.1f", tc.pattern, tc.confidence, tc.cv))
	}
}

func TestGenerateQuantities(t *testing.T) {
	weekly := weeklyHistory("Acme", "S1", 10, 10, 10, 10)
	preds := []domain.PredictionRecord{
		// Actual above predicted: the base uses the higher of the two.
		predRow("2024-02-04", "Acme", "S1", "Test", "Medium", "Smooth", 20, 15),
	}

	result, err := Generate(weekly, preds, "2024-02-04", "")
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)

	o := result.Orders[0]
	assert.Equal(t, 20.0, o.BaseQty)
	assert.InDelta(t, 0.10, o.BufferPct, 1e-9)
	assert.Equal(t, 2.0, o.BufferQty)
	assert.Equal(t, 22.0, o.RecommendedQty)
	assert.Equal(t, "Stable buying pattern", o.ReasonCode)
}

func TestGenerateHistoricalAverages(t *testing.T) {
	weekly := weeklyHistory("Acme", "S1", 2, 4, 6, 8, 10, 12)
	preds := []domain.PredictionRecord{
		predRow("2024-02-18", "Acme", "S1", "Test", "High", "Smooth", 12, 11),
	}

	result, err := Generate(weekly, preds, "2024-02-18", "")
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)

	o := result.Orders[0]
	// Last 4 of [2 4 6 8 10 12] average to 9; too few weeks for the 12w
	// window falls back to the whole-history mean of 7.
	assert.InDelta(t, 9, o.Avg4W, 1e-9)
	assert.InDelta(t, 7, o.Avg12W, 1e-9)
	assert.InDelta(t, 7, o.Avg52W, 1e-9)
	assert.InDelta(t, 1.0, o.Density, 1e-9)
	require.NotNil(t, o.BuyingCycleWeeks)
	assert.InDelta(t, 1, *o.BuyingCycleWeeks, 1e-9)
}

func TestGenerateSortsByCustomerThenQty(t *testing.T) {
	weekly := weeklyHistory("Beta", "S1", 5, 5, 5, 5)
	weekly = append(weekly, weeklyHistory("Alpha", "S2", 5, 5, 5, 5)...)
	weekly = append(weekly, weeklyHistory("Alpha", "S3", 5, 5, 5, 5)...)

	preds := []domain.PredictionRecord{
		predRow("2024-02-04", "Beta", "S1", "Test", "High", "Smooth", 5, 5),
		predRow("2024-02-04", "Alpha", "S2", "Test", "High", "Smooth", 2, 2),
		predRow("2024-02-04", "Alpha", "S3", "Test", "High", "Smooth", 9, 9),
	}

	result, err := Generate(weekly, preds, "2024-02-04", "")
	require.NoError(t, err)
	require.Len(t, result.Orders, 3)
	assert.Equal(t, "S3", result.Orders[0].ItemCode)
	assert.Equal(t, "S2", result.Orders[1].ItemCode)
	assert.Equal(t, "S1", result.Orders[2].ItemCode)

	assert.Equal(t, 2, result.Summary.Customers)
	assert.Equal(t, 3, result.Summary.Items)
	assert.Equal(t, "All", result.Summary.CustomerFilter)
}

func TestGenerateCustomerFilter(t *testing.T) {
	weekly := weeklyHistory("Alpha", "S1", 5, 5, 5, 5)
	weekly = append(weekly, weeklyHistory("Beta", "S2", 5, 5, 5, 5)...)

	preds := []domain.PredictionRecord{
		predRow("2024-02-04", "Alpha", "S1", "Test", "High", "Smooth", 5, 5),
		predRow("2024-02-04", "Beta", "S2", "Test", "High", "Smooth", 5, 5),
	}

	result, err := Generate(weekly, preds, "2024-02-04", "Alpha")
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "Alpha", result.Orders[0].CustomerName)
	assert.Equal(t, "Alpha", result.Summary.CustomerFilter)
}
