// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alkhair/demand-analytics/internal/api/handlers"
	"github.com/alkhair/demand-analytics/internal/api/middleware"
	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/service"
)

// Services bundles everything the router serves from.
type Services struct {
	Store       *dataset.Store
	Sales       *service.SalesService
	Predictions *service.PredictionService
	MarketShare *service.MarketShareService
	Orders      *service.OrderService
	Insights    *service.InsightService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api")

	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil {
		return router
	}

	if services.Sales != nil {
		salesHandler := handlers.NewSalesHandler(services.Sales)
		salesGroup := apiGroup.Group("/sales")
		{
			salesGroup.GET("/training-data", salesHandler.GetTrainingData)
			salesGroup.GET("/analytics", salesHandler.GetAnalytics)
		}
	}

	if services.Predictions != nil {
		forecastHandler := handlers.NewForecastHandler(services.Predictions)
		forecastGroup := apiGroup.Group("/forecast")
		{
			forecastGroup.GET("/weekly", forecastHandler.GetWeekly)
			forecastGroup.GET("/weekly/:week_start/daily", forecastHandler.GetDailyBreakdown)
			forecastGroup.GET("/weeks", forecastHandler.GetWeeks)
			forecastGroup.GET("/summary", forecastHandler.GetSummary)
			forecastGroup.GET("/recommendations", forecastHandler.GetRecommendations)
			forecastGroup.GET("/historical", forecastHandler.GetHistorical)
		}

		predictionsGroup := apiGroup.Group("/predictions")
		{
			predictionsGroup.GET("/data", forecastHandler.GetData)
			predictionsGroup.GET("/week-detail", forecastHandler.GetWeekDetail)
			predictionsGroup.GET("/week-detail/export", forecastHandler.ExportWeekDetail)
		}
	}

	analyticsHandler := handlers.NewAnalyticsHandler(
		services.Store,
		services.Sales,
		services.Predictions,
		services.MarketShare,
		services.Insights,
	)
	analyticsGroup := apiGroup.Group("/analytics")
	{
		analyticsGroup.GET("/summary", analyticsHandler.GetSummary)
		analyticsGroup.GET("/customers", analyticsHandler.GetCustomers)
		analyticsGroup.GET("/items", analyticsHandler.GetItems)
		analyticsGroup.GET("/patterns", analyticsHandler.GetPatterns)
		analyticsGroup.GET("/accuracy", analyticsHandler.GetAccuracy)
		analyticsGroup.GET("/timeline", analyticsHandler.GetTimeline)
		analyticsGroup.GET("/confidence-by-week", analyticsHandler.GetConfidenceByWeek)
		analyticsGroup.GET("/sku-metrics", analyticsHandler.GetSKUMetrics)
		analyticsGroup.GET("/sku-metrics/:item_code", analyticsHandler.GetSKUMetrics)
		analyticsGroup.GET("/weekly-aggregates", analyticsHandler.GetWeeklyAggregates)
		analyticsGroup.GET("/customer-contribution", analyticsHandler.GetCustomerContribution)
		analyticsGroup.GET("/seasonality", analyticsHandler.GetSeasonality)
		analyticsGroup.GET("/zero-demand-heatmap", analyticsHandler.GetZeroDemandHeatmap)
		analyticsGroup.GET("/market-share", analyticsHandler.GetMarketShare)
		analyticsGroup.DELETE("/market-share/cache", analyticsHandler.ClearMarketShareCache)
		analyticsGroup.POST("/ai-insights", analyticsHandler.GenerateInsight)
	}

	if services.Orders != nil {
		ordersHandler := handlers.NewOrdersHandler(services.Orders)
		ordersGroup := apiGroup.Group("/orders")
		{
			ordersGroup.GET("/recommended", ordersHandler.GetRecommended)
			ordersGroup.GET("/customers", ordersHandler.GetCustomers)
			ordersGroup.GET("/dates", ordersHandler.GetDates)
			ordersGroup.DELETE("/cache", ordersHandler.ClearCache)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
