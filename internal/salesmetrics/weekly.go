// internal/salesmetrics/weekly.go
package salesmetrics

import (
	"sort"

	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/filtering"
)

// ActiveSKUsPerWeek counts distinct SKUs with at least one row per week.
// Output is sorted ascending by week-end date; the dates are ISO strings
// so lexical order is chronological order.
func ActiveSKUsPerWeek(records []domain.WeeklySalesRecord) []domain.WeekValue {
	byWeek := filtering.GroupWeeklyByWeek(records)

	out := make([]domain.WeekValue, 0, byWeek.Len())
	for _, week := range byWeek.Keys() {
		items := make(map[string]struct{})
		for _, rec := range byWeek.Get(week) {
			items[rec.ItemCode] = struct{}{}
		}
		out = append(out, domain.WeekValue{Week: week, Value: float64(len(items))})
	}

	sortByWeek(out)

	return out
}

// TotalQuantityPerWeek sums quantity per week, sorted ascending by week.
func TotalQuantityPerWeek(records []domain.WeeklySalesRecord) []domain.WeekValue {
	byWeek := filtering.GroupWeeklyByWeek(records)

	out := make([]domain.WeekValue, 0, byWeek.Len())
	for _, week := range byWeek.Keys() {
		var total float64
		for _, rec := range byWeek.Get(week) {
			total += rec.TotalQuantity
		}
		out = append(out, domain.WeekValue{Week: week, Value: total})
	}

	sortByWeek(out)

	return out
}

// SparsityTrend reports, per week, the percentage of that week's rows
// with zero quantity. A rising trend means the assortment is going stale.
func SparsityTrend(records []domain.WeeklySalesRecord) []domain.WeekValue {
	byWeek := filtering.GroupWeeklyByWeek(records)

	out := make([]domain.WeekValue, 0, byWeek.Len())
	for _, week := range byWeek.Keys() {
		rows := byWeek.Get(week)
		zero := 0
		for _, rec := range rows {
			if rec.TotalQuantity == 0 {
				zero++
			}
		}
		pct := float64(zero) / float64(len(rows)) * 100
		out = append(out, domain.WeekValue{Week: week, Value: pct})
	}

	sortByWeek(out)

	return out
}

func sortByWeek(series []domain.WeekValue) {
	sort.Slice(series, func(i, j int) bool { return series[i].Week < series[j].Week })
}
