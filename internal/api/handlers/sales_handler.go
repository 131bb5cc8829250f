package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alkhair/demand-analytics/internal/service"
)

type SalesHandler struct {
	service *service.SalesService
}

func NewSalesHandler(service *service.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

func (h *SalesHandler) parseQuery(c *gin.Context) service.SalesQuery {
	q := service.SalesQuery{
		Customer:   strings.TrimSpace(c.Query("customer")),
		ItemCode:   strings.TrimSpace(c.Query("item_code")),
		StartDate:  strings.TrimSpace(c.Query("start_date")),
		EndDate:    strings.TrimSpace(c.Query("end_date")),
		TimePeriod: strings.TrimSpace(c.Query("time_period")),
	}

	if useDaily, err := strconv.ParseBool(c.DefaultQuery("use_daily", "false")); err == nil {
		q.UseDaily = useDaily
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 {
		q.Limit = limit
	}

	return q
}

func (h *SalesHandler) GetTrainingData(c *gin.Context) {
	q := h.parseQuery(c)
	rows := h.service.TrainingData(q)

	c.JSON(http.StatusOK, gin.H{
		"data":  rows,
		"count": len(rows),
	})
}

func (h *SalesHandler) GetAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Analytics(h.parseQuery(c)))
}
