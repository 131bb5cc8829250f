package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alkhair/demand-analytics/internal/config"
	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/insights"
)

func insightService(t *testing.T, rows ...domain.PredictionRecord) *InsightService {
	t.Helper()

	store := dataset.NewStore()
	store.Replace(nil, nil, rows, nil)

	analyzer, err := insights.NewAnalyzer(context.Background(), config.InsightsConfig{})
	require.NoError(t, err)

	return NewInsightService(store, analyzer)
}

func TestAnalyzeWithoutModelReturnsDisabledAnswer(t *testing.T) {
	high := predRow("2025-01-05", "Acme", "SKU-1", "Test", 10, 12)
	high.Confidence = "high"
	high.DemandPattern = "Smooth"
	svc := insightService(t, high)

	assert.False(t, svc.Enabled())

	answer, err := svc.Analyze(context.Background(), InsightRequest{Type: InsightTrendAnalysis})

	require.NoError(t, err)
	assert.Equal(t, insights.DisabledAnswer, answer)
}

func TestBuildPromptTrendAnalysis(t *testing.T) {
	high := predRow("2025-01-05", "Acme", "SKU-1", "Test", 10, 12)
	high.Confidence = "high"
	high.DemandPattern = "Smooth"
	low := predRow("2025-01-12", "Acme", "SKU-2", "Test", 3, 4)
	low.Confidence = "low"
	low.DemandPattern = "Sparse"
	svc := insightService(t, high, low)

	prompt, err := svc.buildPrompt(InsightRequest{Type: InsightTrendAnalysis})

	require.NoError(t, err)
	assert.Contains(t, prompt, "Total predictions: 2")
	assert.Contains(t, prompt, "2025-01-05 to 2025-01-12")
	assert.Contains(t, prompt, "50.0%")
	assert.Contains(t, prompt, "- Smooth: 1")
}

func TestBuildPromptAnomalyDetection(t *testing.T) {
	rec := predRow("2025-01-05", "Acme", "SKU-1", "Test", 10, 25)
	rec.Confidence = "low"
	rec.DemandPattern = "Intermittent"
	svc := insightService(t, rec)

	prompt, err := svc.buildPrompt(InsightRequest{
		Type:     InsightAnomalyDetection,
		Week:     "2025-01-05",
		Customer: "Acme",
		ItemCode: "SKU-1",
	})

	require.NoError(t, err)
	assert.Contains(t, prompt, "Actual Quantity: 10.0")
	assert.Contains(t, prompt, "Predicted Quantity: 25.0")

	_, err = svc.buildPrompt(InsightRequest{Type: InsightAnomalyDetection})
	assert.Error(t, err)

	_, err = svc.buildPrompt(InsightRequest{
		Type:     InsightAnomalyDetection,
		Week:     "2025-01-05",
		Customer: "Acme",
		ItemCode: "SKU-404",
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "SKU-404"))
}

func TestBuildPromptPatternExplanation(t *testing.T) {
	svc := insightService(t)

	prompt, err := svc.buildPrompt(InsightRequest{
		Type:     InsightPatternExplanation,
		Pattern:  "Intermittent",
		ItemCode: "SKU-1",
		Customer: "Acme",
	})

	require.NoError(t, err)
	assert.Contains(t, prompt, `"Intermittent"`)

	_, err = svc.buildPrompt(InsightRequest{Type: InsightPatternExplanation})
	assert.Error(t, err)
}

func TestBuildPromptRejectsUnknownType(t *testing.T) {
	svc := insightService(t)

	_, err := svc.buildPrompt(InsightRequest{Type: "weather_report"})

	assert.Error(t, err)
}
