// internal/recommend/history.go
package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
)

// pairKey identifies a customer-item combination across the weekly
// history and the prediction rows.
type pairKey struct {
	Customer string
	ItemCode string
}

// historical summarizes one customer-item weekly history for order
// sizing. Averages fall back to the whole-history mean when fewer than N
// weeks exist; CV uses the sample standard deviation and is 0 when the
// mean is 0 or there are fewer than two weeks. Density is a 0-1 fraction.
type historical struct {
	Avg4    float64
	Avg12   float64
	Avg24   float64
	Avg52   float64
	CV      float64
	Density float64
}

func tailMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) < n {
		n = len(values)
	}
	var sum float64
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

func sampleCV(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq/float64(len(values)-1)) / mean
}

// computeHistoricals builds per-pair metrics from the weekly history.
// Rows are sorted by date first so the tail windows are the most recent
// weeks.
func computeHistoricals(weekly []domain.WeeklySalesRecord) map[pairKey]historical {
	byPair := make(map[pairKey][]domain.WeeklySalesRecord)
	for _, rec := range weekly {
		k := pairKey{Customer: rec.CustomerName, ItemCode: rec.ItemCode}
		byPair[k] = append(byPair[k], rec)
	}

	out := make(map[pairKey]historical, len(byPair))
	for k, rows := range byPair {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

		values := make([]float64, len(rows))
		nonZero := 0
		for i, rec := range rows {
			values[i] = rec.TotalQuantity
			if rec.TotalQuantity > 0 {
				nonZero++
			}
		}

		out[k] = historical{
			Avg4:    tailMean(values, 4),
			Avg12:   tailMean(values, 12),
			Avg24:   tailMean(values, 24),
			Avg52:   tailMean(values, 52),
			CV:      sampleCV(values),
			Density: float64(nonZero) / float64(len(values)),
		}
	}

	return out
}

// computeBuyingCycles returns the mean gap in weeks between purchase
// weeks per pair. Pairs with a single purchase have no cycle (nil).
func computeBuyingCycles(weekly []domain.WeeklySalesRecord) map[pairKey]*float64 {
	byPair := make(map[pairKey][]string)
	for _, rec := range weekly {
		if rec.TotalQuantity <= 0 {
			continue
		}
		k := pairKey{Customer: rec.CustomerName, ItemCode: rec.ItemCode}
		byPair[k] = append(byPair[k], rec.Date)
	}

	out := make(map[pairKey]*float64, len(byPair))
	for k, dates := range byPair {
		sort.Strings(dates)
		if len(dates) < 2 {
			out[k] = nil
			continue
		}

		var total float64
		gaps := 0
		for i := 1; i < len(dates); i++ {
			prev, err1 := dataset.ParseDate(dates[i-1])
			cur, err2 := dataset.ParseDate(dates[i])
			if err1 != nil || err2 != nil {
				continue
			}
			total += cur.Sub(prev).Hours() / 24 / 7
			gaps++
		}
		if gaps == 0 {
			out[k] = nil
			continue
		}

		cycle := total / float64(gaps)
		out[k] = &cycle
	}

	return out
}

// computeBuyCounts counts purchase weeks per pair.
func computeBuyCounts(weekly []domain.WeeklySalesRecord) map[pairKey]int {
	out := make(map[pairKey]int)
	for _, rec := range weekly {
		if rec.TotalQuantity > 0 {
			out[pairKey{Customer: rec.CustomerName, ItemCode: rec.ItemCode}]++
		}
	}
	return out
}

func isHighConfidence(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "high")
}

func isLowConfidence(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "low")
}
