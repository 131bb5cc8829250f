package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alkhair/demand-analytics/internal/service"
)

type OrdersHandler struct {
	service *service.OrderService
}

func NewOrdersHandler(service *service.OrderService) *OrdersHandler {
	return &OrdersHandler{service: service}
}

func (h *OrdersHandler) GetRecommended(c *gin.Context) {
	targetDate := strings.TrimSpace(c.Query("target_date"))
	if targetDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_date is required"})
		return
	}
	customer := strings.TrimSpace(c.Query("customer"))

	useCache := true
	if parsed, err := strconv.ParseBool(c.DefaultQuery("use_cache", "true")); err == nil {
		useCache = parsed
	}

	result, err := h.service.Recommended(c.Request.Context(), targetDate, customer, useCache)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": result.Summary,
		"orders":  result.Orders,
	})
}

func (h *OrdersHandler) GetCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"customers": h.service.Customers(),
	})
}

func (h *OrdersHandler) GetDates(c *gin.Context) {
	dates := h.service.Dates(strings.TrimSpace(c.Query("data_split")))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dates":   dates,
		"count":   len(dates),
	})
}

func (h *OrdersHandler) ClearCache(c *gin.Context) {
	if err := h.service.ClearCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear order cache", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "order cache cleared"})
}
