package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/service"
)

const defaultHeatmapSKUs = 50

// AnalyticsHandler serves the aggregated analytics routes: summary and
// accuracy over predictions, SKU metrics over sales, market share, and
// AI insights.
type AnalyticsHandler struct {
	store       *dataset.Store
	sales       *service.SalesService
	predictions *service.PredictionService
	marketShare *service.MarketShareService
	insights    *service.InsightService
}

func NewAnalyticsHandler(
	store *dataset.Store,
	sales *service.SalesService,
	predictions *service.PredictionService,
	marketShare *service.MarketShareService,
	insights *service.InsightService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		store:       store,
		sales:       sales,
		predictions: predictions,
		marketShare: marketShare,
		insights:    insights,
	}
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictions.Summary())
}

func (h *AnalyticsHandler) GetCustomers(c *gin.Context) {
	customers := h.store.Customers()
	c.JSON(http.StatusOK, gin.H{"customers": customers, "count": len(customers)})
}

func (h *AnalyticsHandler) GetItems(c *gin.Context) {
	items := h.store.Items()
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *AnalyticsHandler) GetPatterns(c *gin.Context) {
	patterns := h.store.Patterns()
	c.JSON(http.StatusOK, gin.H{"patterns": patterns, "count": len(patterns)})
}

func (h *AnalyticsHandler) GetAccuracy(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictions.Accuracy(parsePredictionQuery(c)))
}

func (h *AnalyticsHandler) GetTimeline(c *gin.Context) {
	points := h.predictions.Timeline(parsePredictionQuery(c))
	c.JSON(http.StatusOK, gin.H{"data": points, "count": len(points)})
}

func (h *AnalyticsHandler) GetConfidenceByWeek(c *gin.Context) {
	weeks := h.predictions.ConfidenceByWeek(parsePredictionQuery(c))
	c.JSON(http.StatusOK, gin.H{"data": weeks, "count": len(weeks)})
}

func (h *AnalyticsHandler) GetSKUMetrics(c *gin.Context) {
	metrics := h.sales.SKUMetrics(c.Param("item_code"))
	c.JSON(http.StatusOK, gin.H{"data": metrics, "count": len(metrics)})
}

func (h *AnalyticsHandler) GetWeeklyAggregates(c *gin.Context) {
	q := service.SalesQuery{
		Customer:  strings.TrimSpace(c.Query("customer")),
		ItemCode:  strings.TrimSpace(c.Query("item_code")),
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
	}
	c.JSON(http.StatusOK, h.sales.WeeklyAggregates(q))
}

func (h *AnalyticsHandler) GetCustomerContribution(c *gin.Context) {
	shares := h.sales.CustomerContribution(strings.TrimSpace(c.Query("item_code")))
	c.JSON(http.StatusOK, gin.H{"data": shares, "count": len(shares)})
}

func (h *AnalyticsHandler) GetSeasonality(c *gin.Context) {
	q := service.SalesQuery{
		Customer: strings.TrimSpace(c.Query("customer")),
		ItemCode: strings.TrimSpace(c.Query("item_code")),
	}
	buckets := h.sales.Seasonality(q)
	c.JSON(http.StatusOK, gin.H{"data": buckets, "count": len(buckets)})
}

func (h *AnalyticsHandler) GetZeroDemandHeatmap(c *gin.Context) {
	q := service.SalesQuery{
		Customer: strings.TrimSpace(c.Query("customer")),
	}
	maxSKUs, _ := strconv.Atoi(c.DefaultQuery("max_skus", strconv.Itoa(defaultHeatmapSKUs)))
	if maxSKUs <= 0 {
		maxSKUs = defaultHeatmapSKUs
	}
	c.JSON(http.StatusOK, h.sales.ZeroDemandHeatmap(q, maxSKUs))
}

func (h *AnalyticsHandler) GetMarketShare(c *gin.Context) {
	customer := strings.TrimSpace(c.Query("customer"))
	if customer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer is required"})
		return
	}

	percent := 70.0
	if raw := strings.TrimSpace(c.Query("percent")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percent must be between 0 and 100"})
			return
		}
		percent = parsed
	}

	result, err := h.marketShare.Share(c.Request.Context(), customer, percent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute market share", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandler) ClearMarketShareCache(c *gin.Context) {
	if err := h.marketShare.ClearCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear market share cache", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "market share cache cleared"})
}

func (h *AnalyticsHandler) GenerateInsight(c *gin.Context) {
	var req service.InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	insight, err := h.insights.Analyze(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"insight_type": req.Type,
		"insight":      insight,
	})
}
