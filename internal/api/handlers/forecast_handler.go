package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alkhair/demand-analytics/internal/service"
)

// ForecastHandler serves the forecast and prediction routes from the
// prediction service.
type ForecastHandler struct {
	service *service.PredictionService
}

func NewForecastHandler(service *service.PredictionService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

func parsePredictionQuery(c *gin.Context) service.PredictionQuery {
	q := service.PredictionQuery{
		Customer:   strings.TrimSpace(c.Query("customer")),
		ItemCode:   strings.TrimSpace(c.Query("item_code")),
		StartWeek:  strings.TrimSpace(c.Query("start_date")),
		EndWeek:    strings.TrimSpace(c.Query("end_date")),
		Confidence: strings.TrimSpace(c.Query("confidence")),
		Pattern:    strings.TrimSpace(c.Query("demand_pattern")),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 {
		q.Limit = limit
	}
	return q
}

func (h *ForecastHandler) GetWeekly(c *gin.Context) {
	rows := h.service.Weekly(parsePredictionQuery(c))
	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *ForecastHandler) GetWeeks(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Weeks())
}

func (h *ForecastHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Summary())
}

func (h *ForecastHandler) GetRecommendations(c *gin.Context) {
	rows := h.service.Recommendations(parsePredictionQuery(c))
	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *ForecastHandler) GetHistorical(c *gin.Context) {
	rows := h.service.Historical(parsePredictionQuery(c))
	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *ForecastHandler) GetData(c *gin.Context) {
	rows := h.service.Data(parsePredictionQuery(c))
	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *ForecastHandler) GetDailyBreakdown(c *gin.Context) {
	customer := strings.TrimSpace(c.Query("customer"))
	itemCode := strings.TrimSpace(c.Query("item_code"))
	if customer == "" || itemCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer and item_code are required"})
		return
	}

	rows, err := h.service.DailyBreakdown(c.Param("week_start"), customer, itemCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *ForecastHandler) GetWeekDetail(c *gin.Context) {
	customer := strings.TrimSpace(c.Query("customer"))
	itemCode := strings.TrimSpace(c.Query("item_code"))
	if customer == "" || itemCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer and item_code are required"})
		return
	}

	if week := strings.TrimSpace(c.Query("week")); week != "" {
		detail := h.service.WeekDetail(customer, itemCode, week)
		if detail == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no data for the requested week"})
			return
		}
		c.JSON(http.StatusOK, detail)
		return
	}

	details := h.service.WeekDetailSeries(customer, itemCode)
	c.JSON(http.StatusOK, gin.H{"data": details, "count": len(details)})
}

func (h *ForecastHandler) ExportWeekDetail(c *gin.Context) {
	customer := strings.TrimSpace(c.Query("customer"))
	itemCode := strings.TrimSpace(c.Query("item_code"))
	if customer == "" || itemCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer and item_code are required"})
		return
	}

	filename := fmt.Sprintf("week_detail_%s_%s.csv", sanitizeFilename(customer), sanitizeFilename(itemCode))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv")

	if err := h.service.ExportWeekDetail(c.Writer, customer, itemCode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export week detail", "details": err.Error()})
	}
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
