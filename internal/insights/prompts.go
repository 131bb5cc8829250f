// internal/insights/prompts.go
package insights

import (
	"fmt"
	"sort"
	"strings"
)

const systemPrompt = `You are an expert demand forecasting analyst with deep knowledge in:
- Supply chain analytics
- Statistical forecasting models
- Demand pattern recognition
- Inventory optimization

Your role is to analyze demand forecasting data and provide actionable insights.
Be concise, specific, and data-driven in your responses.`

// TrendSummary carries the aggregates the trend-analysis prompt is
// formatted from.
type TrendSummary struct {
	TotalPredictions    int
	StartDate           string
	EndDate             string
	HighConfidencePct   float64
	PatternDistribution map[string]int
}

func TrendAnalysisPrompt(s TrendSummary) string {
	patterns := make([]string, 0, len(s.PatternDistribution))
	for pattern, count := range s.PatternDistribution {
		patterns = append(patterns, fmt.Sprintf("- %s: %d", pattern, count))
	}
	sort.Strings(patterns)

	return fmt.Sprintf(`Analyze the following demand forecasting data and provide insights on trends:

Data Summary:
- Total predictions: %d
- Date range: %s to %s
- High confidence predictions: %.1f%%

Demand Pattern Distribution:
%s

Please analyze:
1. What are the key demand patterns and what do they indicate?
2. How reliable are the forecasts based on confidence levels?
3. What recommendations would you give for inventory planning?`,
		s.TotalPredictions, s.StartDate, s.EndDate, s.HighConfidencePct, strings.Join(patterns, "\n"))
}

// AnomalyDetail carries one week's comparison for the anomaly prompt.
type AnomalyDetail struct {
	Week       string
	Customer   string
	Item       string
	Actual     float64
	Predicted  float64
	Confidence string
	Pattern    string
}

func AnomalyDetectionPrompt(d AnomalyDetail) string {
	return fmt.Sprintf(`Analyze the following weekly demand data for anomalies:

Week: %s
Customer: %s
Item: %s
Actual Quantity: %.1f
Predicted Quantity: %.1f
Confidence: %s
Demand Pattern: %s

Please explain:
1. Is there a significant deviation between actual and predicted?
2. What factors might explain this deviation?
3. Should this be flagged for further investigation?`,
		d.Week, d.Customer, d.Item, d.Actual, d.Predicted, d.Confidence, d.Pattern)
}

func PatternExplanationPrompt(pattern, item, customer string) string {
	return fmt.Sprintf(`Explain the demand pattern %q in the context of inventory management:

For item: %s
Customer: %s

Please cover:
1. What does this pattern mean?
2. What challenges does it present for forecasting?
3. What strategies work best for this pattern type?`,
		pattern, item, customer)
}
