package domain

import "strings"

// DemandType classifies a SKU's weekly history by demand density.
type DemandType string

const (
	DemandSmooth       DemandType = "Smooth"
	DemandIntermittent DemandType = "Intermittent"
	DemandSparse       DemandType = "Sparse"
)

// Approach is the modeling approach suggested by the trainability score.
type Approach string

const (
	ApproachML          Approach = "ML"
	ApproachStatistical Approach = "Statistical"
	ApproachRuleBased   Approach = "Rule-based"
)

// DataSplit labels on prediction rows. Train and Test rows carry known
// actuals; Forecast rows are future weeks without actuals.
const (
	SplitTrain    = "Train"
	SplitTest     = "Test"
	SplitForecast = "Forecast"
)

var splitPriority = map[string]int{
	SplitTrain: 1,
	SplitTest:  2,
}

// SplitPriority returns the dedup precedence for a DataSplit label; lower
// wins. Unknown labels (including Forecast, which is excluded before
// dedup) rank last at 999.
func SplitPriority(split string) int {
	if p, ok := splitPriority[split]; ok {
		return p
	}

	return 999
}

// IsHistoricalSplit reports whether a split label carries known actuals.
func IsHistoricalSplit(split string) bool {
	return split == SplitTrain || split == SplitTest
}

// NormalizeSplit maps arbitrary-case split labels onto the canonical
// Train/Test/Forecast values, leaving unrecognized labels untouched.
func NormalizeSplit(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "train":
		return SplitTrain
	case "test":
		return SplitTest
	case "forecast":
		return SplitForecast
	}

	return strings.TrimSpace(raw)
}
