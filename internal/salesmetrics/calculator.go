// internal/salesmetrics/calculator.go
package salesmetrics

import (
	"math"

	"github.com/alkhair/demand-analytics/internal/domain"
)

// Distribution holds population statistics over a value series. Std and
// CV are divide-by-N, not N-1; when the mean is 0 both are forced to 0
// to avoid division by zero (a documented simplification, not a
// statistically correct answer).
type Distribution struct {
	Mean float64
	Std  float64
	CV   float64
}

// DemandDensity returns the percentage of records with quantity > 0.
// Density is always computed per SKU over that SKU's own weekly history.
func DemandDensity(records []domain.WeeklySalesRecord) float64 {
	if len(records) == 0 {
		return 0
	}

	nonZero := 0
	for _, rec := range records {
		if rec.TotalQuantity > 0 {
			nonZero++
		}
	}

	return float64(nonZero) / float64(len(records)) * 100
}

// DemandTypeFor classifies a density percentage. Exactly 70 is
// Intermittent (the Smooth test is strict >); exactly 30 is Intermittent.
func DemandTypeFor(density float64) domain.DemandType {
	switch {
	case density > 70:
		return domain.DemandSmooth
	case density >= 30:
		return domain.DemandIntermittent
	default:
		return domain.DemandSparse
	}
}

// Describe computes population mean, standard deviation, and coefficient
// of variation.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	if mean == 0 {
		return Distribution{Mean: 0, Std: 0, CV: 0}
	}

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(values)))

	return Distribution{Mean: mean, Std: std, CV: std / mean}
}

// TrainabilityScore combines history length, density, and stability into
// a 0-100 heuristic. History is a step function (not proportional),
// density is linear, and stability rewards low CV.
func TrainabilityScore(historyLength int, density, cv float64) int {
	var score float64

	switch {
	case historyLength >= 52:
		score += 40
	case historyLength >= 26:
		score += 25
	case historyLength >= 13:
		score += 10
	}

	score += density / 100 * 30

	switch {
	case cv <= 0.5:
		score += 30
	case cv <= 1:
		score += 20
	case cv <= 1.5:
		score += 10
	case cv <= 2:
		score += 5
	}

	final := int(math.Round(score))
	if final > 100 {
		final = 100
	}

	return final
}

// RecommendedApproach maps a trainability score to a modeling approach.
func RecommendedApproach(score int) domain.Approach {
	switch {
	case score >= 70:
		return domain.ApproachML
	case score >= 40:
		return domain.ApproachStatistical
	default:
		return domain.ApproachRuleBased
	}
}

// SKUMetricsFor composes the per-SKU metrics over one SKU's weekly rows.
func SKUMetricsFor(itemCode, itemName string, records []domain.WeeklySalesRecord) domain.SKUMetrics {
	density := DemandDensity(records)

	values := make([]float64, len(records))
	customers := make(map[string]struct{})
	zeroWeeks := 0
	for i, rec := range records {
		values[i] = rec.TotalQuantity
		if rec.TotalQuantity == 0 {
			zeroWeeks++
		}
		id := rec.CustomerID
		if id == "" {
			id = rec.CustomerName
		}
		customers[id] = struct{}{}
	}

	dist := Describe(values)
	score := TrainabilityScore(len(records), density, dist.CV)

	return domain.SKUMetrics{
		ItemCode:            itemCode,
		ItemName:            itemName,
		HistoryLength:       len(records),
		Density:             density,
		DemandType:          DemandTypeFor(density),
		Mean:                dist.Mean,
		Std:                 dist.Std,
		CV:                  dist.CV,
		CustomerCount:       len(customers),
		ZeroDemandWeeks:     zeroWeeks,
		TrainabilityScore:   score,
		RecommendedApproach: RecommendedApproach(score),
	}
}
