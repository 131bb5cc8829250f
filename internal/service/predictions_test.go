package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
)

func predRow(date, customer, item, split string, actual, predicted float64) domain.PredictionRecord {
	return domain.PredictionRecord{
		Date:         date,
		CustomerName: customer,
		ItemCode:     item,
		ItemName:     "Item " + item,
		ActualQty:    actual,
		PredictedQty: predicted,
		DataSplit:    split,
	}
}

func predStore(rows ...domain.PredictionRecord) *dataset.Store {
	store := dataset.NewStore()
	store.Replace(nil, nil, rows, nil)
	return store
}

func TestDataDedupPrefersTrainOverTestOverForecast(t *testing.T) {
	svc := NewPredictionService(predStore(
		predRow("2025-01-05", "Acme", "SKU-1", "Test", 8, 9),
		predRow("2025-01-05", "Acme", "SKU-1", "Train", 10, 11),
		predRow("2025-01-12", "Acme", "SKU-1", "Forecast", 0, 14),
	))

	rows := svc.Data(PredictionQuery{})

	require.Len(t, rows, 2)
	assert.Equal(t, "Train", rows[0].DataSplit)
	assert.InDelta(t, 10, rows[0].ActualQty, 1e-9)
	assert.Equal(t, "Forecast", rows[1].DataSplit)
}

func TestDataLimitKeepsMostRecentWeeks(t *testing.T) {
	svc := NewPredictionService(predStore(
		predRow("2025-01-05", "Acme", "SKU-1", "Train", 1, 1),
		predRow("2025-01-12", "Acme", "SKU-1", "Train", 2, 2),
		predRow("2025-01-19", "Acme", "SKU-1", "Test", 3, 3),
	))

	rows := svc.Data(PredictionQuery{Limit: 2})

	require.Len(t, rows, 2)
	assert.Equal(t, "2025-01-12", rows[0].Date)
	assert.Equal(t, "2025-01-19", rows[1].Date)
}

func TestHistoricalAndRecommendationsSplitRows(t *testing.T) {
	svc := NewPredictionService(predStore(
		predRow("2025-01-19", "Acme", "SKU-1", "Forecast", 0, 12),
		predRow("2025-01-05", "Acme", "SKU-1", "Train", 10, 11),
		predRow("2025-01-12", "Acme", "SKU-1", "Test", 9, 10),
	))

	hist := svc.Historical(PredictionQuery{})
	require.Len(t, hist, 2)
	assert.Equal(t, "2025-01-05", hist[0].Date)
	assert.Equal(t, "2025-01-12", hist[1].Date)

	future := svc.Recommendations(PredictionQuery{})
	require.Len(t, future, 1)
	assert.Equal(t, "Forecast", future[0].DataSplit)
}

func TestWeeklyFiltersByConfidenceAndPattern(t *testing.T) {
	high := predRow("2025-01-05", "Acme", "SKU-1", "Test", 5, 6)
	high.Confidence = "high"
	high.DemandPattern = "Smooth"
	low := predRow("2025-01-05", "Acme", "SKU-2", "Test", 3, 4)
	low.Confidence = "low"
	low.DemandPattern = "Sparse"

	svc := NewPredictionService(predStore(high, low))

	rows := svc.Weekly(PredictionQuery{Confidence: "high"})
	require.Len(t, rows, 1)
	assert.Equal(t, "SKU-1", rows[0].ItemCode)

	rows = svc.Weekly(PredictionQuery{Pattern: "Sparse"})
	require.Len(t, rows, 1)
	assert.Equal(t, "SKU-2", rows[0].ItemCode)
}

func TestWeeksInfo(t *testing.T) {
	svc := NewPredictionService(predStore(
		predRow("2025-01-12", "Acme", "SKU-1", "Test", 1, 1),
		predRow("2025-01-05", "Acme", "SKU-1", "Train", 1, 1),
		predRow("2025-01-05", "Beta", "SKU-2", "Train", 1, 1),
	))

	info := svc.Weeks()

	assert.Equal(t, []string{"2025-01-05", "2025-01-12"}, info.Weeks)
	assert.Equal(t, 2, info.TotalWeeks)
	assert.Equal(t, "2025-01-05", info.FirstWeek)
	assert.Equal(t, "2025-01-12", info.LastWeek)
}

func TestSummaryMetrics(t *testing.T) {
	high := predRow("2025-01-05", "Acme", "SKU-1", "Test", 10, 12)
	high.Confidence = "high"
	high.DemandPattern = "Smooth"
	low := predRow("2025-01-12", "Beta", "SKU-2", "Test", 20, 16)
	low.Confidence = "low"
	low.DemandPattern = "Sparse"

	svc := NewPredictionService(predStore(high, low))

	sum := svc.Summary()

	assert.Equal(t, 2, sum.TotalPredictions)
	assert.Equal(t, 2, sum.TotalWeeks)
	assert.Equal(t, 2, sum.TotalCustomers)
	assert.Equal(t, 2, sum.TotalItems)
	assert.InDelta(t, 50, sum.HighConfidencePct, 1e-9)
	assert.InDelta(t, 15, sum.AvgWeeklyDemand, 1e-9)
	assert.InDelta(t, 14, sum.AvgPredictedDemand, 1e-9)
	assert.Equal(t, "2025-01-05", sum.DateRange.Start)
	assert.Equal(t, "2025-01-12", sum.DateRange.End)
	assert.NotEmpty(t, sum.DateRange.StartLabel)
	assert.Equal(t, 1, sum.ConfidenceDistribution["high"])
	assert.Equal(t, 1, sum.PatternDistribution["Sparse"])
}

func TestTimelineSumsPerWeek(t *testing.T) {
	svc := NewPredictionService(predStore(
		predRow("2025-01-12", "Acme", "SKU-1", "Test", 5, 6),
		predRow("2025-01-05", "Acme", "SKU-1", "Test", 10, 12),
		predRow("2025-01-05", "Beta", "SKU-2", "Test", 4, 3),
	))

	points := svc.Timeline(PredictionQuery{})

	require.Len(t, points, 2)
	assert.Equal(t, "2025-01-05", points[0].Date)
	assert.InDelta(t, 14, points[0].Actual, 1e-9)
	assert.InDelta(t, 15, points[0].Predicted, 1e-9)
	assert.NotEmpty(t, points[0].WeekLabel)
	assert.Equal(t, "2025-01-12", points[1].Date)
}

func TestConfidenceByWeekCounts(t *testing.T) {
	rows := []domain.PredictionRecord{
		predRow("2025-01-05", "Acme", "SKU-1", "Test", 1, 1),
		predRow("2025-01-05", "Acme", "SKU-2", "Test", 1, 1),
		predRow("2025-01-05", "Acme", "SKU-3", "Test", 1, 1),
	}
	rows[0].Confidence = "high"
	rows[1].Confidence = "low"
	rows[2].Confidence = "medium"

	svc := NewPredictionService(predStore(rows...))

	weeks := svc.ConfidenceByWeek(PredictionQuery{})

	require.Len(t, weeks, 1)
	assert.Equal(t, 1, weeks[0].High)
	assert.Equal(t, 1, weeks[0].Low)
}

func TestExportWeekDetailWritesCSV(t *testing.T) {
	svc := NewPredictionService(predStore(
		predRow("2025-01-05", "Acme", "SKU-1", "Train", 10, 11),
		predRow("2025-01-12", "Acme", "SKU-1", "Test", 9, 10),
	))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportWeekDetail(&buf, "Acme", "SKU-1"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Week,ActualQty,PredictedQty"))
	assert.True(t, strings.HasPrefix(lines[1], "2025-01-05,10,11"))
}

func TestDailyBreakdownTagsWeekdays(t *testing.T) {
	daily := []domain.DailySalesRecord{
		{Date: "2025-01-07", CustomerName: "Acme", ItemCode: "SKU-1", TotalQuantity: 3},
		{Date: "2025-01-06", CustomerName: "Acme", ItemCode: "SKU-1", TotalQuantity: 2},
		{Date: "2025-01-14", CustomerName: "Acme", ItemCode: "SKU-1", TotalQuantity: 9},
		{Date: "2025-01-07", CustomerName: "Beta", ItemCode: "SKU-1", TotalQuantity: 5},
	}
	store := dataset.NewStore()
	store.Replace(nil, daily, nil, nil)
	svc := NewPredictionService(store)

	rows, err := svc.DailyBreakdown("2025-01-06", "Acme", "SKU-1")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-01-06", rows[0].Date)
	assert.Equal(t, "Monday", rows[0].DayOfWeek)
	assert.Equal(t, "Tuesday", rows[1].DayOfWeek)

	_, err = svc.DailyBreakdown("not-a-date", "Acme", "SKU-1")
	assert.Error(t, err)
}
