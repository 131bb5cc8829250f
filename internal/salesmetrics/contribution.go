// internal/salesmetrics/contribution.go
package salesmetrics

import (
	"sort"

	"github.com/alkhair/demand-analytics/internal/domain"
)

// CustomerContribution ranks customers by total quantity, optionally
// restricted to one item code, with cumulative percentages for ABC
// classification. Ties keep first-seen customer order so repeated calls
// over the same data return the same ranking.
func CustomerContribution(records []domain.WeeklySalesRecord, itemCode string) []domain.CustomerShare {
	type acc struct {
		id    string
		total float64
	}

	order := make([]string, 0)
	totals := make(map[string]*acc)
	var grand float64

	for _, rec := range records {
		if itemCode != "" && rec.ItemCode != itemCode {
			continue
		}
		a, ok := totals[rec.CustomerName]
		if !ok {
			a = &acc{id: rec.CustomerID}
			totals[rec.CustomerName] = a
			order = append(order, rec.CustomerName)
		}
		a.total += rec.TotalQuantity
		grand += rec.TotalQuantity
	}

	shares := make([]domain.CustomerShare, 0, len(order))
	for _, name := range order {
		shares = append(shares, domain.CustomerShare{
			CustomerID:    totals[name].id,
			CustomerName:  name,
			TotalQuantity: totals[name].total,
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].TotalQuantity > shares[j].TotalQuantity
	})

	var cum float64
	for i := range shares {
		if grand > 0 {
			shares[i].PctOfTotal = shares[i].TotalQuantity / grand * 100
			cum += shares[i].PctOfTotal
			shares[i].CumulativePct = cum
		}
	}

	return shares
}
