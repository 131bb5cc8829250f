// internal/service/marketshare.go
package service

import (
	"context"

	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/marketshare"
)

// MarketShareService answers Pareto queries over the weekly sales data.
type MarketShareService struct {
	store *dataset.Store
	calc  *marketshare.Calculator
}

func NewMarketShareService(store *dataset.Store, calc *marketshare.Calculator) *MarketShareService {
	return &MarketShareService{store: store, calc: calc}
}

// Share returns the minimal set of items covering the given percent of a
// customer's recent demand.
func (s *MarketShareService) Share(ctx context.Context, customer string, percent float64) (*domain.MarketShareResult, error) {
	return s.calc.Share(ctx, s.store.Weekly(), customer, percent)
}

// ClearCache drops all cached market-share results.
func (s *MarketShareService) ClearCache(ctx context.Context) error {
	return s.calc.InvalidateAll(ctx)
}
