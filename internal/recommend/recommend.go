// internal/recommend/recommend.go
package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
)

const maxBufferPct = 0.30

// Generate builds recommended orders for one target week. The date is
// snapped to its Sunday week-end; Test rows are preferred over Forecast
// rows for the same customer-item pair because they carry actuals.
func Generate(weekly []domain.WeeklySalesRecord, predictions []domain.PredictionRecord, targetDate, customerFilter string) (*domain.OrderResult, error) {
	target, err := dataset.EnsureSunday(targetDate)
	if err != nil {
		return nil, err
	}

	if len(predictions) == 0 {
		return nil, fmt.Errorf("prediction data not available")
	}

	selected := selectForDate(predictions, target)
	if len(selected) == 0 {
		return nil, fmt.Errorf("no prediction data available for date %s", target)
	}

	hist := computeHistoricals(weekly)
	cycles := computeBuyingCycles(weekly)
	buyCounts := computeBuyCounts(weekly)

	orders := make([]domain.RecommendedOrder, 0, len(selected))
	for _, rec := range selected {
		if customerFilter != "" && rec.CustomerName != customerFilter {
			continue
		}

		k := pairKey{Customer: rec.CustomerName, ItemCode: rec.ItemCode}
		buyCount := buyCounts[k]
		// Tiered selection: purchase history required, plus either a
		// meaningful prediction or a core item bought 10+ times.
		if buyCount == 0 || (rec.PredictedQty < 1 && buyCount < 10) {
			continue
		}

		h := hist[k]
		bufferPct := bufferFor(rec.DemandPattern, rec.Confidence, h.CV)

		base := math.Max(rec.ActualQty, rec.PredictedQty)
		bufferQty := math.Round(base * bufferPct)
		recommended := math.Round(base + bufferQty)

		orders = append(orders, domain.RecommendedOrder{
			Date:             rec.Date,
			CustomerName:     rec.CustomerName,
			ItemCode:         rec.ItemCode,
			ItemName:         rec.ItemName,
			ActualQty:        rec.ActualQty,
			PredictedQty:     rec.PredictedQty,
			BaseQty:          base,
			RecommendedQty:   recommended,
			Confidence:       rec.Confidence,
			DemandPattern:    rec.DemandPattern,
			BuyingCycleWeeks: cycles[k],
			Avg4W:            h.Avg4,
			Avg12W:           h.Avg12,
			Avg24W:           h.Avg24,
			Avg52W:           h.Avg52,
			BufferQty:        bufferQty,
			BufferPct:        bufferPct,
			Density:          h.Density,
			CV:               h.CV,
			ReasonCode:       reasonFor(buyCount, rec.Confidence, h.CV),
			BuyCount:         buyCount,
		})
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CustomerName != orders[j].CustomerName {
			return orders[i].CustomerName < orders[j].CustomerName
		}
		return orders[i].RecommendedQty > orders[j].RecommendedQty
	})

	return &domain.OrderResult{
		Summary: summarize(orders, target, customerFilter),
		Orders:  orders,
	}, nil
}

// selectForDate keeps the target week's rows, preferring a Test row over
// a Forecast row for the same customer-item pair.
func selectForDate(predictions []domain.PredictionRecord, target string) []domain.PredictionRecord {
	var tests, forecasts []domain.PredictionRecord
	for _, rec := range predictions {
		if rec.Date != target {
			continue
		}
		switch domain.NormalizeSplit(rec.DataSplit) {
		case domain.SplitTest:
			tests = append(tests, rec)
		case domain.SplitForecast:
			forecasts = append(forecasts, rec)
		}
	}

	seen := make(map[pairKey]struct{}, len(tests))
	for _, rec := range tests {
		seen[pairKey{Customer: rec.CustomerName, ItemCode: rec.ItemCode}] = struct{}{}
	}

	out := tests
	for _, rec := range forecasts {
		if _, ok := seen[pairKey{Customer: rec.CustomerName, ItemCode: rec.ItemCode}]; !ok {
			out = append(out, rec)
		}
	}

	return out
}

// bufferFor sizes the safety buffer from the demand pattern, forecast
// confidence, and volatility, capped at 30%.
func bufferFor(pattern, confidence string, cv float64) float64 {
	var pct float64

	switch domain.DemandType(pattern) {
	case domain.DemandSmooth:
		if isHighConfidence(confidence) {
			pct += 0.05
		} else {
			pct += 0.10
		}
	case domain.DemandIntermittent:
		pct += 0.20
	default:
		pct += 0.05
	}

	if isLowConfidence(confidence) {
		pct += 0.10
	}
	if cv > 1 {
		pct += 0.10
	}

	return math.Min(pct, maxBufferPct)
}

func reasonFor(buyCount int, confidence string, cv float64) string {
	switch {
	case buyCount == 0:
		return "New or rarely purchased item"
	case isLowConfidence(confidence):
		return "Low forecast confidence - safety buffer added"
	case cv > 1:
		return "High demand volatility"
	default:
		return "Stable buying pattern"
	}
}

func summarize(orders []domain.RecommendedOrder, target, customerFilter string) domain.OrderSummary {
	customers := make(map[string]struct{})
	var orderQty, predictedQty, bufferQty float64
	for _, o := range orders {
		customers[o.CustomerName] = struct{}{}
		orderQty += o.RecommendedQty
		predictedQty += o.PredictedQty
		bufferQty += o.BufferQty
	}

	filter := customerFilter
	if filter == "" {
		filter = "All"
	}

	return domain.OrderSummary{
		Date:              target,
		Customers:         len(customers),
		Items:             len(orders),
		TotalOrderQty:     int(orderQty),
		TotalPredictedQty: int(predictedQty),
		TotalBufferQty:    int(bufferQty),
		CustomerFilter:    filter,
	}
}
