// internal/predmetrics/indicators.go
package predmetrics

import (
	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/salesmetrics"
)

// indicatorWindow is how many preceding weeks the stability and range
// checks look at, and indicatorMin is how many of them must exist before
// a verdict is given at all.
const (
	indicatorWindow = 12
	indicatorMin    = 4
)

// IsAboveTrend reports whether the actual sits above its 4-week trailing
// mean. Nil when the 4-week average itself is unavailable.
func IsAboveTrend(actual float64, week4Avg *float64) *bool {
	if week4Avg == nil {
		return nil
	}
	v := actual > *week4Avg
	return &v
}

// IsStableDemand checks the population coefficient of variation over up
// to 12 weeks preceding targetWeek. Nil with fewer than 4 priors.
func IsStableDemand(records []domain.PredictionRecord, targetWeek string) *bool {
	window := precedingActuals(records, targetWeek)
	if window == nil {
		return nil
	}
	v := salesmetrics.Describe(window).CV < 0.3
	return &v
}

// IsWithinHistoricalRange checks the predicted quantity against the min
// and max actuals of the same preceding window, inclusive on both ends.
// Nil with fewer than 4 priors.
func IsWithinHistoricalRange(predicted float64, records []domain.PredictionRecord, targetWeek string) *bool {
	window := precedingActuals(records, targetWeek)
	if window == nil {
		return nil
	}

	lo, hi := window[0], window[0]
	for _, v := range window[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	v := predicted >= lo && predicted <= hi
	return &v
}

func precedingActuals(records []domain.PredictionRecord, targetWeek string) []float64 {
	sorted := sortChronological(records)
	idx := indexOfWeek(sorted, targetWeek)
	if idx < 0 {
		return nil
	}

	start := idx - indicatorWindow
	if start < 0 {
		start = 0
	}
	if idx-start < indicatorMin {
		return nil
	}

	window := make([]float64, 0, idx-start)
	for _, rec := range sorted[start:idx] {
		window = append(window, rec.ActualQty)
	}
	return window
}
