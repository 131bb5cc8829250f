package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alkhair/demand-analytics/internal/config"
	"github.com/alkhair/demand-analytics/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func testDataConfig(t *testing.T) config.DataConfig {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, dir, "weekly.csv",
		"TrxDate,CustomerID,CustomerName,ItemCode,ItemName,TotalQuantity\n"+
			"2025-01-05,C1,Acme,SKU-1,Widget,12\n"+
			"2025-01-12,C1,Acme,SKU-1,Widget,8\n"+
			",C1,Acme,SKU-1,Widget,99\n") // no date, dropped
	writeFile(t, dir, "daily.csv",
		"TrxDate,CustomerID,CustomerName,ItemCode,ItemName,TotalQuantity\n"+
			"2025-01-06,C1,Acme,SKU-1,Widget,5\n"+
			"2025-01-07,C1,Acme,SKU-1,Widget,7\n"+
			"2025-01-13,C1,Acme,SKU-1,Widget,3\n")
	writeFile(t, dir, "predictions.csv",
		"TrxDate,CustomerName,ItemCode,ItemName,TotalQuantity,Predicted,Confidence,Demand_Pattern,DataSplit\n"+
			"2025-01-05,Acme,SKU-1,Widget,12,10,high,Smooth,train\n"+
			"2025-01-12,Acme,SKU-1,,8,9,low,Smooth,test\n"+
			"2025-01-19,Acme,SKU-1,Widget,0,11,low,Smooth,forecast\n")

	return config.DataConfig{
		Dir:             dir,
		WeeklyFile:      "weekly.csv",
		DailyFile:       "daily.csv",
		PredictionsFile: "predictions.csv",
	}
}

func TestLoadReadsAllFiles(t *testing.T) {
	store, err := NewLoader(testDataConfig(t)).Load()
	require.NoError(t, err)

	weekly := store.Weekly()
	require.Len(t, weekly, 2)
	assert.Equal(t, "Acme", weekly[0].CustomerName)
	assert.InDelta(t, 12, weekly[0].TotalQuantity, 1e-9)

	assert.Len(t, store.Daily(), 3)

	predictions := store.Predictions()
	require.Len(t, predictions, 3)
	// Split labels are normalized, the actual column alias is accepted,
	// and missing item names are unified from sibling rows.
	assert.Equal(t, domain.SplitTrain, predictions[0].DataSplit)
	assert.InDelta(t, 8, predictions[1].ActualQty, 1e-9)
	assert.Equal(t, "Widget", predictions[1].ItemName)
	// Every row is stamped with the latest Test week.
	for _, rec := range predictions {
		assert.Equal(t, "2025-01-12", rec.TestDate)
	}
}

func TestLoadToleratesMissingFiles(t *testing.T) {
	cfg := testDataConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.Dir, "predictions.csv")))

	store, err := NewLoader(cfg).Load()
	require.NoError(t, err)

	assert.Len(t, store.Weekly(), 2)
	assert.Empty(t, store.Predictions())
}

func TestReloadSwapsStoreContents(t *testing.T) {
	cfg := testDataConfig(t)
	loader := NewLoader(cfg)

	store, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, store.Weekly(), 2)

	writeFile(t, cfg.Dir, "weekly.csv",
		"TrxDate,CustomerID,CustomerName,ItemCode,ItemName,TotalQuantity\n"+
			"2025-02-02,C1,Acme,SKU-1,Widget,4\n")

	require.NoError(t, loader.Reload(store))

	weekly := store.Weekly()
	require.Len(t, weekly, 1)
	assert.Equal(t, "2025-02-02", weekly[0].Date)
}

func TestAggregateDailyToWeekly(t *testing.T) {
	daily := []domain.DailySalesRecord{
		{Date: "2025-01-06", CustomerID: "C1", CustomerName: "Acme", ItemCode: "SKU-1", ItemName: "Widget", TotalQuantity: 5},
		{Date: "2025-01-07", CustomerID: "C1", CustomerName: "Acme", ItemCode: "SKU-1", ItemName: "Widget", TotalQuantity: 7},
		{Date: "2025-01-13", CustomerID: "C1", CustomerName: "Acme", ItemCode: "SKU-1", ItemName: "Widget", TotalQuantity: 3},
	}

	weekly := AggregateDailyToWeekly(daily)

	require.Len(t, weekly, 2)
	assert.Equal(t, "2025-01-12", weekly[0].Date)
	assert.InDelta(t, 12, weekly[0].TotalQuantity, 1e-9)
	assert.Equal(t, "2025-01-19", weekly[1].Date)
	assert.InDelta(t, 3, weekly[1].TotalQuantity, 1e-9)

	assert.Nil(t, AggregateDailyToWeekly(nil))
}
