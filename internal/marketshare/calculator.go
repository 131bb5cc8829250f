// internal/marketshare/calculator.go
package marketshare

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/alkhair/demand-analytics/internal/cache"
	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/filtering"
)

// activeMonths is the calendar-month lookback that decides which items
// still count as part of a customer's assortment. The subtraction is
// calendar-based (six months back from the latest week), so window length
// in days varies with the months crossed.
const activeMonths = 6

// Calculator builds per-customer Pareto breakdowns. Results are cached
// per (customer, percent); the owner must invalidate the cache when the
// dataset is replaced.
type Calculator struct {
	cache cache.MarketShareCache
}

func NewCalculator(c cache.MarketShareCache) *Calculator {
	return &Calculator{cache: c}
}

// Share returns the smallest set of recently-active items whose
// full-history volume reaches percent of the customer's active-item
// total. Activity is judged over the trailing six calendar months, but
// ranking magnitudes use the customer's complete history so a seasonal
// item is not underweighted.
func (c *Calculator) Share(ctx context.Context, records []domain.WeeklySalesRecord, customer string, percent float64) (*domain.MarketShareResult, error) {
	if cached, ok, err := c.cache.Get(ctx, customer, percent); err != nil {
		log.Warn().Err(err).Str("customer", customer).Msg("market share cache read failed")
	} else if ok {
		return cached, nil
	}

	result := compute(records, customer, percent)

	if err := c.cache.Set(ctx, customer, percent, result); err != nil {
		log.Warn().Err(err).Str("customer", customer).Msg("market share cache write failed")
	}

	return result, nil
}

// InvalidateAll drops every cached breakdown. Called on dataset reload.
func (c *Calculator) InvalidateAll(ctx context.Context) error {
	return c.cache.InvalidateAll(ctx)
}

func compute(records []domain.WeeklySalesRecord, customer string, percent float64) *domain.MarketShareResult {
	rows := filtering.WeeklyByCustomer(records, customer)

	result := &domain.MarketShareResult{
		CustomerName: customer,
		Percent:      percent,
		Items:        []domain.MarketShareItem{},
	}
	if len(rows) == 0 {
		return result
	}

	latest := rows[0].Date
	for _, rec := range rows[1:] {
		if rec.Date > latest {
			latest = rec.Date
		}
	}

	windowStart := latest
	if end, err := dataset.ParseDate(latest); err == nil {
		windowStart = end.AddDate(0, -activeMonths, 0).Format(dataset.DateLayout)
	}
	result.WindowStart = windowStart
	result.WindowEnd = latest

	active := make(map[string]struct{})
	for _, rec := range rows {
		if rec.Date >= windowStart && rec.TotalQuantity > 0 {
			active[rec.ItemCode] = struct{}{}
		}
	}
	result.ActiveItems = len(active)

	type item struct {
		code  string
		name  string
		total float64
	}
	order := make([]string, 0, len(active))
	totals := make(map[string]*item)
	var grand float64
	for _, rec := range rows {
		if _, ok := active[rec.ItemCode]; !ok {
			continue
		}
		it, ok := totals[rec.ItemCode]
		if !ok {
			it = &item{code: rec.ItemCode, name: rec.ItemName}
			totals[rec.ItemCode] = it
			order = append(order, rec.ItemCode)
		}
		it.total += rec.TotalQuantity
		grand += rec.TotalQuantity
	}
	result.TotalQuantity = grand
	if grand <= 0 {
		return result
	}

	ranked := make([]*item, 0, len(order))
	for _, code := range order {
		ranked = append(ranked, totals[code])
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].total > ranked[j].total })

	var cum float64
	for _, it := range ranked {
		pct := it.total / grand * 100
		cum += pct
		result.Items = append(result.Items, domain.MarketShareItem{
			ItemCode:      it.code,
			ItemName:      it.name,
			TotalQuantity: it.total,
			PctOfTotal:    pct,
			CumulativePct: cum,
		})
		if cum >= percent {
			break
		}
	}

	return result
}
