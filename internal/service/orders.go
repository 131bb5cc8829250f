// internal/service/orders.go
package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/alkhair/demand-analytics/internal/cache"
	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/recommend"
)

// OrderService generates weekly order recommendations and caches the
// results per (date, customer).
type OrderService struct {
	store *dataset.Store
	cache cache.OrderCache
}

func NewOrderService(store *dataset.Store, c cache.OrderCache) *OrderService {
	return &OrderService{store: store, cache: c}
}

// Recommended builds the order sheet for a target week. With useCache a
// previously computed result for the same date and customer is reused.
// Cache failures fall back to a fresh computation.
func (s *OrderService) Recommended(ctx context.Context, targetDate, customer string, useCache bool) (*domain.OrderResult, error) {
	snapped, err := dataset.EnsureSunday(targetDate)
	if err != nil {
		return nil, err
	}

	if useCache {
		cached, ok, err := s.cache.Get(ctx, snapped, customer)
		if err != nil {
			log.Warn().Err(err).Str("date", snapped).Msg("order cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	result, err := recommend.Generate(s.store.Weekly(), s.store.Predictions(), snapped, customer)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, snapped, customer, result); err != nil {
		log.Warn().Err(err).Str("date", snapped).Msg("order cache write failed")
	}

	return result, nil
}

// Customers lists the customers present in the prediction data.
func (s *OrderService) Customers() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range s.store.Predictions() {
		if _, ok := seen[rec.CustomerName]; ok {
			continue
		}
		seen[rec.CustomerName] = struct{}{}
		out = append(out, rec.CustomerName)
	}
	sort.Strings(out)
	return out
}

// Dates lists the distinct Sundays orders can target, snapped backward
// to the Sunday on or before each prediction week. An optional split
// filter restricts the source rows (e.g. Forecast for future weeks).
func (s *OrderService) Dates(split string) []string {
	normalized := ""
	if split != "" {
		normalized = domain.NormalizeSplit(split)
	}

	seen := make(map[string]struct{})
	var out []string
	for _, rec := range s.store.Predictions() {
		if normalized != "" && domain.NormalizeSplit(rec.DataSplit) != normalized {
			continue
		}
		t, err := dataset.ParseDate(rec.Date)
		if err != nil {
			continue
		}
		sunday := dataset.SundayOnOrBefore(t).Format(dataset.DateLayout)
		if _, ok := seen[sunday]; ok {
			continue
		}
		seen[sunday] = struct{}{}
		out = append(out, sunday)
	}
	sort.Strings(out)
	return out
}

// ClearCache drops all cached order results.
func (s *OrderService) ClearCache(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}
