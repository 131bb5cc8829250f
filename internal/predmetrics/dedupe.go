// internal/predmetrics/dedupe.go
package predmetrics

import (
	"sort"

	"github.com/alkhair/demand-analytics/internal/domain"
)

// Dedupe collapses prediction rows to one per week. Forecast rows are
// excluded up front because they carry no actuals to compare against;
// when a week has both a Train and a Test row (overlapping model splits),
// the Train row wins. Output is sorted ascending by week-end date.
func Dedupe(records []domain.PredictionRecord) []domain.PredictionRecord {
	best := make(map[string]domain.PredictionRecord)
	weeks := make([]string, 0)

	for _, rec := range records {
		if domain.NormalizeSplit(rec.DataSplit) == domain.SplitForecast {
			continue
		}
		cur, ok := best[rec.Date]
		if !ok {
			best[rec.Date] = rec
			weeks = append(weeks, rec.Date)
			continue
		}
		if domain.SplitPriority(rec.DataSplit) < domain.SplitPriority(cur.DataSplit) {
			best[rec.Date] = rec
		}
	}

	sort.Strings(weeks)

	out := make([]domain.PredictionRecord, 0, len(weeks))
	for _, week := range weeks {
		out = append(out, best[week])
	}

	return out
}
