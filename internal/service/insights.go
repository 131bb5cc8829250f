// internal/service/insights.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/insights"
)

// Insight types accepted by the AI analysis endpoint.
const (
	InsightTrendAnalysis      = "trend_analysis"
	InsightAnomalyDetection   = "anomaly_detection"
	InsightPatternExplanation = "pattern_explanation"
)

// InsightRequest selects an analysis and its subject. Week, Customer and
// ItemCode scope anomaly detection; Pattern drives pattern explanation.
type InsightRequest struct {
	Type     string `json:"insight_type" binding:"required"`
	Week     string `json:"week"`
	Customer string `json:"customer"`
	ItemCode string `json:"item_code"`
	Pattern  string `json:"pattern"`
}

// InsightService turns dashboard data into language-model prompts and
// returns the generated analysis.
type InsightService struct {
	store    *dataset.Store
	analyzer *insights.Analyzer
}

func NewInsightService(store *dataset.Store, analyzer *insights.Analyzer) *InsightService {
	return &InsightService{store: store, analyzer: analyzer}
}

// Enabled reports whether a language model is configured.
func (s *InsightService) Enabled() bool {
	return s.analyzer.Enabled()
}

// Analyze builds the prompt for the requested insight type and runs it.
func (s *InsightService) Analyze(ctx context.Context, req InsightRequest) (string, error) {
	prompt, err := s.buildPrompt(req)
	if err != nil {
		return "", err
	}
	return s.analyzer.Generate(ctx, prompt)
}

func (s *InsightService) buildPrompt(req InsightRequest) (string, error) {
	switch strings.TrimSpace(req.Type) {
	case InsightTrendAnalysis:
		return insights.TrendAnalysisPrompt(s.trendSummary()), nil
	case InsightAnomalyDetection:
		detail, err := s.anomalyDetail(req)
		if err != nil {
			return "", err
		}
		return insights.AnomalyDetectionPrompt(detail), nil
	case InsightPatternExplanation:
		if req.Pattern == "" {
			return "", fmt.Errorf("pattern is required for %s", InsightPatternExplanation)
		}
		return insights.PatternExplanationPrompt(req.Pattern, req.ItemCode, req.Customer), nil
	}

	return "", fmt.Errorf("unknown insight type %q", req.Type)
}

func (s *InsightService) trendSummary() insights.TrendSummary {
	rows := s.store.Predictions()

	summary := insights.TrendSummary{
		TotalPredictions:    len(rows),
		PatternDistribution: map[string]int{},
	}
	if len(rows) == 0 {
		return summary
	}

	high := 0
	start, end := rows[0].Date, rows[0].Date
	for _, rec := range rows {
		if isHighConfidence(rec.Confidence) {
			high++
		}
		if rec.DemandPattern != "" {
			summary.PatternDistribution[rec.DemandPattern]++
		}
		if rec.Date < start {
			start = rec.Date
		}
		if rec.Date > end {
			end = rec.Date
		}
	}

	summary.StartDate = start
	summary.EndDate = end
	summary.HighConfidencePct = float64(high) / float64(len(rows)) * 100

	return summary
}

func (s *InsightService) anomalyDetail(req InsightRequest) (insights.AnomalyDetail, error) {
	if req.Week == "" || req.Customer == "" || req.ItemCode == "" {
		return insights.AnomalyDetail{}, fmt.Errorf("week, customer and item_code are required for %s", InsightAnomalyDetection)
	}

	for _, rec := range s.store.Predictions() {
		if rec.Date == req.Week && rec.CustomerName == req.Customer && rec.ItemCode == req.ItemCode {
			return insights.AnomalyDetail{
				Week:       rec.Date,
				Customer:   rec.CustomerName,
				Item:       rec.ItemCode,
				Actual:     rec.ActualQty,
				Predicted:  rec.PredictedQty,
				Confidence: rec.Confidence,
				Pattern:    rec.DemandPattern,
			}, nil
		}
	}

	return insights.AnomalyDetail{}, fmt.Errorf("no prediction for %s / %s in week %s", req.Customer, req.ItemCode, req.Week)
}
