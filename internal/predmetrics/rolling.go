// internal/predmetrics/rolling.go
package predmetrics

import (
	"sort"

	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
)

// sortChronological returns the records ordered by parsed date.
// Unparseable dates keep the lexical order of their raw strings, which
// for the loader's normalized YYYY-MM-DD output is the same thing.
func sortChronological(records []domain.PredictionRecord) []domain.PredictionRecord {
	sorted := append([]domain.PredictionRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, erri := dataset.ParseDate(sorted[i].Date)
		tj, errj := dataset.ParseDate(sorted[j].Date)
		if erri != nil || errj != nil {
			return sorted[i].Date < sorted[j].Date
		}
		return ti.Before(tj)
	})
	return sorted
}

func indexOfWeek(sorted []domain.PredictionRecord, targetWeek string) int {
	for i, rec := range sorted {
		if rec.Date == targetWeek {
			return i
		}
	}
	return -1
}

// RollingAverage returns the mean actual quantity of the window records
// strictly preceding targetWeek. Nil when the target is missing, is the
// first record, or has fewer than window priors; partial windows are
// never averaged.
func RollingAverage(records []domain.PredictionRecord, targetWeek string, window int) *float64 {
	sorted := sortChronological(records)
	idx := indexOfWeek(sorted, targetWeek)
	if idx <= 0 || idx < window {
		return nil
	}

	var sum float64
	for _, rec := range sorted[idx-window : idx] {
		sum += rec.ActualQty
	}
	avg := sum / float64(window)

	return &avg
}

// RollingAverages computes the 4/12/24/52-week variants independently;
// each may be nil while the others are populated.
func RollingAverages(records []domain.PredictionRecord, targetWeek string) domain.RollingAverages {
	return domain.RollingAverages{
		Week4Avg:  RollingAverage(records, targetWeek, 4),
		Week12Avg: RollingAverage(records, targetWeek, 12),
		Week24Avg: RollingAverage(records, targetWeek, 24),
		Week52Avg: RollingAverage(records, targetWeek, 52),
	}
}
