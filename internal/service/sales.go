// internal/service/sales.go
package service

import (
	"sort"
	"time"

	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/filtering"
	"github.com/alkhair/demand-analytics/internal/salesmetrics"
)

// SalesQuery filters the weekly training data. TimePeriod is one of
// 1month/3months/6months/1year (30/90/180/365 days back from now);
// explicit dates stack on top of it.
type SalesQuery struct {
	Customer   string
	ItemCode   string
	StartDate  string
	EndDate    string
	TimePeriod string
	UseDaily   bool
	Limit      int
}

// SalesSummary is the header block of the sales analytics response.
type SalesSummary struct {
	TotalRecords    int       `json:"total_records"`
	TotalVolume     float64   `json:"total_volume"`
	UniqueItems     int       `json:"unique_items"`
	UniqueCustomers int       `json:"unique_customers"`
	DateRange       DateRange `json:"date_range"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklyTrend is one point of the volume-over-time chart.
type WeeklyTrend struct {
	Date   string  `json:"date"`
	Week   string  `json:"week"`
	Volume float64 `json:"volume"`
}

// TopItem is one row of the item Pareto table.
type TopItem struct {
	ItemCode           string  `json:"item_code"`
	ItemName           string  `json:"item_name"`
	TotalQuantity      float64 `json:"total_quantity"`
	MarketSharePct     float64 `json:"market_share_pct"`
	CumulativeSharePct float64 `json:"cumulative_share_pct"`
}

// CustomerSlice is one row of the customer volume distribution.
type CustomerSlice struct {
	Customer       string  `json:"customer"`
	TotalQuantity  float64 `json:"total_quantity"`
	MarketSharePct float64 `json:"market_share_pct"`
}

// SalesAnalytics is the aggregated sales-supervision response.
type SalesAnalytics struct {
	DataSource           string          `json:"data_source"`
	Summary              SalesSummary    `json:"summary"`
	WeeklyTrends         []WeeklyTrend   `json:"weekly_trends"`
	TopItems             []TopItem       `json:"top_items"`
	Top75PercentItems    []TopItem       `json:"top_75_percent_items"`
	CustomerDistribution []CustomerSlice `json:"customer_distribution"`
}

const topItemLimit = 20

// SalesService serves the actual-sales side of the dashboard from the
// weekly (or aggregated daily) training data. Predictions never enter
// here.
type SalesService struct {
	store *dataset.Store
	now   func() time.Time
}

func NewSalesService(store *dataset.Store) *SalesService {
	return &SalesService{store: store, now: time.Now}
}

// TrainingData returns filtered weekly sales rows sorted by date.
func (s *SalesService) TrainingData(q SalesQuery) []domain.WeeklySalesRecord {
	// An unfiltered query aliases the store's slice; copy so the sort
	// cannot reorder shared data under concurrent readers.
	rows := append([]domain.WeeklySalesRecord(nil), s.filtered(q)...)

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	return rows
}

// Analytics aggregates the filtered rows into the sales-supervision
// response: weekly trends, item Pareto, the top-75% item set, and the
// customer distribution.
func (s *SalesService) Analytics(q SalesQuery) *SalesAnalytics {
	rows := s.filtered(q)

	out := &SalesAnalytics{
		DataSource:           "weekly",
		WeeklyTrends:         []WeeklyTrend{},
		TopItems:             []TopItem{},
		Top75PercentItems:    []TopItem{},
		CustomerDistribution: []CustomerSlice{},
	}
	if q.UseDaily {
		out.DataSource = "daily"
	}
	if len(rows) == 0 {
		return out
	}

	for _, wv := range salesmetrics.TotalQuantityPerWeek(rows) {
		out.WeeklyTrends = append(out.WeeklyTrends, WeeklyTrend{
			Date:   wv.Week,
			Week:   dataset.WeekLabel(wv.Week),
			Volume: wv.Value,
		})
		out.Summary.TotalVolume += wv.Value
	}

	items := rankItems(rows, out.Summary.TotalVolume)
	for _, it := range items {
		if it.CumulativeSharePct <= 75 {
			out.Top75PercentItems = append(out.Top75PercentItems, it)
		}
	}
	if len(items) > topItemLimit {
		items = items[:topItemLimit]
	}
	out.TopItems = items

	for _, share := range salesmetrics.CustomerContribution(rows, "") {
		out.CustomerDistribution = append(out.CustomerDistribution, CustomerSlice{
			Customer:       share.CustomerName,
			TotalQuantity:  share.TotalQuantity,
			MarketSharePct: share.PctOfTotal,
		})
	}

	out.Summary.TotalRecords = len(rows)
	out.Summary.UniqueItems = countDistinct(rows, func(r domain.WeeklySalesRecord) string { return r.ItemCode })
	out.Summary.UniqueCustomers = countDistinct(rows, func(r domain.WeeklySalesRecord) string { return r.CustomerName })
	out.Summary.DateRange = dateRangeOf(rows)

	return out
}

// SKUMetrics computes the per-SKU metrics table, optionally for a single
// item, sorted by item name.
func (s *SalesService) SKUMetrics(itemCode string) []domain.SKUMetrics {
	rows := s.store.Weekly()
	if itemCode != "" {
		rows = filtering.WeeklyByItem(rows, itemCode)
	}

	bySKU := filtering.GroupWeeklyBySKU(rows)
	out := make([]domain.SKUMetrics, 0, bySKU.Len())
	for _, code := range bySKU.Keys() {
		group := bySKU.Get(code)
		out = append(out, salesmetrics.SKUMetricsFor(code, group[0].ItemName, group))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })

	return out
}

// WeeklyAggregates bundles the per-week chart series.
type WeeklyAggregates struct {
	ActiveSKUs    []domain.WeekValue `json:"active_skus"`
	TotalQuantity []domain.WeekValue `json:"total_quantity"`
	SparsityPct   []domain.WeekValue `json:"sparsity_pct"`
}

func (s *SalesService) WeeklyAggregates(q SalesQuery) *WeeklyAggregates {
	rows := s.filtered(q)

	return &WeeklyAggregates{
		ActiveSKUs:    salesmetrics.ActiveSKUsPerWeek(rows),
		TotalQuantity: salesmetrics.TotalQuantityPerWeek(rows),
		SparsityPct:   salesmetrics.SparsityTrend(rows),
	}
}

func (s *SalesService) CustomerContribution(itemCode string) []domain.CustomerShare {
	return salesmetrics.CustomerContribution(s.store.Weekly(), itemCode)
}

func (s *SalesService) Seasonality(q SalesQuery) []domain.SeasonalityBucket {
	return salesmetrics.DemandByWeekOfYear(s.filtered(q))
}

func (s *SalesService) ZeroDemandHeatmap(q SalesQuery, maxSKUs int) domain.Heatmap {
	return salesmetrics.ZeroDemandHeatmap(s.filtered(q), maxSKUs)
}

func (s *SalesService) filtered(q SalesQuery) []domain.WeeklySalesRecord {
	var rows []domain.WeeklySalesRecord
	if q.UseDaily && len(s.store.DailyWeekly()) > 0 {
		rows = s.store.DailyWeekly()
	} else {
		rows = s.store.Weekly()
	}

	if cutoff := s.periodCutoff(q.TimePeriod); cutoff != "" {
		rows = filtering.WeeklyByDateRange(rows, cutoff, "")
	}
	if q.StartDate != "" || q.EndDate != "" {
		rows = filtering.WeeklyByDateRange(rows, q.StartDate, q.EndDate)
	}
	if q.Customer != "" {
		rows = filtering.WeeklyByCustomer(rows, q.Customer)
	}
	if q.ItemCode != "" {
		rows = filtering.WeeklyByItem(rows, q.ItemCode)
	}

	return rows
}

func (s *SalesService) periodCutoff(period string) string {
	var days int
	switch period {
	case "1month":
		days = 30
	case "3months":
		days = 90
	case "6months":
		days = 180
	case "1year":
		days = 365
	default:
		return ""
	}

	return s.now().AddDate(0, 0, -days).Format(dataset.DateLayout)
}

func rankItems(rows []domain.WeeklySalesRecord, totalVolume float64) []TopItem {
	type acc struct {
		name  string
		total float64
	}
	order := make([]string, 0)
	totals := make(map[string]*acc)
	for _, rec := range rows {
		a, ok := totals[rec.ItemCode]
		if !ok {
			a = &acc{name: rec.ItemName}
			totals[rec.ItemCode] = a
			order = append(order, rec.ItemCode)
		}
		a.total += rec.TotalQuantity
	}

	items := make([]TopItem, 0, len(order))
	for _, code := range order {
		items = append(items, TopItem{
			ItemCode:      code,
			ItemName:      totals[code].name,
			TotalQuantity: totals[code].total,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].TotalQuantity > items[j].TotalQuantity })

	var cum float64
	for i := range items {
		if totalVolume > 0 {
			items[i].MarketSharePct = items[i].TotalQuantity / totalVolume * 100
			cum += items[i].MarketSharePct
			items[i].CumulativeSharePct = cum
		}
	}

	return items
}

func countDistinct(rows []domain.WeeklySalesRecord, key func(domain.WeeklySalesRecord) string) int {
	set := make(map[string]struct{})
	for _, rec := range rows {
		set[key(rec)] = struct{}{}
	}
	return len(set)
}

func dateRangeOf(rows []domain.WeeklySalesRecord) DateRange {
	dr := DateRange{Start: rows[0].Date, End: rows[0].Date}
	for _, rec := range rows[1:] {
		if rec.Date < dr.Start {
			dr.Start = rec.Date
		}
		if rec.Date > dr.End {
			dr.End = rec.Date
		}
	}
	return dr
}
