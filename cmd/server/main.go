// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alkhair/demand-analytics/internal/api"
	"github.com/alkhair/demand-analytics/internal/cache"
	"github.com/alkhair/demand-analytics/internal/config"
	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/insights"
	"github.com/alkhair/demand-analytics/internal/marketshare"
	"github.com/alkhair/demand-analytics/internal/service"
	"github.com/alkhair/demand-analytics/internal/storage"
	"github.com/alkhair/demand-analytics/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	if cfg.Storage.Endpoint != "" {
		objectStore, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect object storage")
		}
		if err := storage.SyncDataset(ctx, objectStore, cfg.Data); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to sync dataset")
		}
	}

	store, err := dataset.NewLoader(cfg.Data).Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	marketShareCache, err := cache.NewMarketShareCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize market share cache")
	}
	orderCache, err := cache.NewOrderCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize order cache")
	}

	analyzer, err := insights.NewAnalyzer(ctx, cfg.Insights)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize insight analyzer")
	}
	defer analyzer.Close()

	services := &api.Services{
		Store:       store,
		Sales:       service.NewSalesService(store),
		Predictions: service.NewPredictionService(store),
		MarketShare: service.NewMarketShareService(store, marketshare.NewCalculator(marketShareCache)),
		Orders:      service.NewOrderService(store, orderCache),
		Insights:    service.NewInsightService(store, analyzer),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
