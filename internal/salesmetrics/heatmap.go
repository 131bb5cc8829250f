// internal/salesmetrics/heatmap.go
package salesmetrics

import (
	"sort"

	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/filtering"
)

// ZeroDemandHeatmap builds a binary had-demand grid for the maxSKUs items
// with the longest histories. Columns are the union of observed weeks in
// ascending order; a cell is 1 when the SKU recorded positive quantity
// that week.
func ZeroDemandHeatmap(records []domain.WeeklySalesRecord, maxSKUs int) domain.Heatmap {
	bySKU := filtering.GroupWeeklyBySKU(records)

	type ranked struct {
		code  string
		name  string
		count int
	}
	items := make([]ranked, 0, bySKU.Len())
	for _, code := range bySKU.Keys() {
		rows := bySKU.Get(code)
		items = append(items, ranked{code: code, name: rows[0].ItemName, count: len(rows)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].count > items[j].count })
	if maxSKUs > 0 && len(items) > maxSKUs {
		items = items[:maxSKUs]
	}

	weekSet := make(map[string]struct{})
	for _, rec := range records {
		weekSet[rec.Date] = struct{}{}
	}
	weeks := make([]string, 0, len(weekSet))
	for week := range weekSet {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	weekIdx := make(map[string]int, len(weeks))
	for i, week := range weeks {
		weekIdx[week] = i
	}

	rows := make([]domain.HeatmapRow, 0, len(items))
	for _, item := range items {
		cells := make([]int, len(weeks))
		for _, rec := range bySKU.Get(item.code) {
			if rec.TotalQuantity > 0 {
				cells[weekIdx[rec.Date]] = 1
			}
		}
		rows = append(rows, domain.HeatmapRow{ItemCode: item.code, ItemName: item.name, Cells: cells})
	}

	return domain.Heatmap{Weeks: weeks, Rows: rows}
}
