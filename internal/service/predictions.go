// internal/service/predictions.go
package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/filtering"
	"github.com/alkhair/demand-analytics/internal/predmetrics"
)

// PredictionQuery filters prediction rows. Weeks are Sunday week-end
// dates in YYYY-MM-DD form.
type PredictionQuery struct {
	Customer   string
	ItemCode   string
	StartWeek  string
	EndWeek    string
	Confidence string
	Pattern    string
	Limit      int
}

// WeeksInfo describes the weeks covered by the prediction data.
type WeeksInfo struct {
	Weeks      []string `json:"weeks"`
	TotalWeeks int      `json:"total_weeks"`
	FirstWeek  string   `json:"first_week,omitempty"`
	LastWeek   string   `json:"last_week,omitempty"`
}

// ForecastSummary is the dashboard header over the prediction data.
type ForecastSummary struct {
	TotalPredictions         int            `json:"total_predictions"`
	TotalWeeks               int            `json:"total_weeks"`
	TotalCustomers           int            `json:"total_customers"`
	TotalItems               int            `json:"total_items"`
	DateRange                SummaryRange   `json:"date_range"`
	HighConfidencePct        float64        `json:"high_confidence_pct"`
	AvgWeeklyDemand          float64        `json:"avg_weekly_demand"`
	AvgPredictedDemand       float64        `json:"avg_predicted_demand"`
	ConfidenceDistribution   map[string]int `json:"confidence_distribution"`
	PatternDistribution      map[string]int `json:"pattern_distribution"`
}

// SummaryRange carries the first and last week plus display labels.
type SummaryRange struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
}

// TimelinePoint is one week of the aggregated actual-vs-predicted chart.
type TimelinePoint struct {
	Date      string  `json:"date"`
	WeekLabel string  `json:"week_label"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// ConfidenceWeek counts confidence labels for one week.
type ConfidenceWeek struct {
	Week string `json:"week"`
	High int    `json:"high"`
	Low  int    `json:"low"`
}

// DailyDetail is a daily drill-down row with its weekday name.
type DailyDetail struct {
	domain.DailySalesRecord
	DayOfWeek string `json:"DayOfWeek"`
}

// PredictionService serves the forecast side of the dashboard: filtered
// prediction rows, week drill-downs, accuracy, and aggregations.
type PredictionService struct {
	store *dataset.Store
}

func NewPredictionService(store *dataset.Store) *PredictionService {
	return &PredictionService{store: store}
}

// Weekly returns filtered prediction rows in stored order, capped at the
// limit.
func (s *PredictionService) Weekly(q PredictionQuery) []domain.PredictionRecord {
	rows := s.filtered(q)
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows
}

// Data returns prediction rows deduplicated per (customer, item, week)
// with Train preferred over Test over Forecast. When the limit bites, it
// keeps the most recent rows; the final order is ascending by week.
func (s *PredictionService) Data(q PredictionQuery) []domain.PredictionRecord {
	rows := dedupeAcrossSeries(s.filtered(q))

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	return rows
}

// Historical returns Train and Test rows only (weeks with known actuals).
func (s *PredictionService) Historical(q PredictionQuery) []domain.PredictionRecord {
	rows := s.filtered(q)
	rows = filtering.Filter(rows, func(r domain.PredictionRecord) bool {
		return domain.IsHistoricalSplit(domain.NormalizeSplit(r.DataSplit))
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// Recommendations returns future Forecast rows in ascending week order.
func (s *PredictionService) Recommendations(q PredictionQuery) []domain.PredictionRecord {
	rows := filtering.PredictionsBySplit(s.filtered(q), domain.SplitForecast)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// WeekDetail builds the drill-down for one customer-item week.
func (s *PredictionService) WeekDetail(customer, itemCode, week string) *domain.WeekDetail {
	return predmetrics.WeekDetail(s.series(customer, itemCode), week)
}

// WeekDetailSeries builds the full drill-down series for a customer-item
// pair.
func (s *PredictionService) WeekDetailSeries(customer, itemCode string) []domain.WeekDetail {
	return predmetrics.WeekDetails(s.series(customer, itemCode))
}

// ExportWeekDetail writes the drill-down series as CSV. encoding/csv
// handles quoting, so item names with commas survive round trips.
func (s *PredictionService) ExportWeekDetail(w io.Writer, customer, itemCode string) error {
	details := s.WeekDetailSeries(customer, itemCode)

	cw := csv.NewWriter(w)
	header := []string{
		"Week", "ActualQty", "PredictedQty", "Error", "ErrorPct", "Confidence",
		"DataSplit", "Week4Avg", "Week12Avg", "Week24Avg", "Week52Avg",
		"AboveTrend", "StableDemand", "WithinHistoricalRange",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, d := range details {
		row := []string{
			d.Week,
			formatFloat(d.ActualQty),
			formatFloat(d.PredictedQty),
			formatFloat(d.Error),
			formatFloat(d.ErrorPct),
			formatFloat(d.Confidence),
			d.DataSplit,
			formatFloatPtr(d.RollingAverages.Week4Avg),
			formatFloatPtr(d.RollingAverages.Week12Avg),
			formatFloatPtr(d.RollingAverages.Week24Avg),
			formatFloatPtr(d.RollingAverages.Week52Avg),
			formatBoolPtr(d.AboveTrend),
			formatBoolPtr(d.StableDemand),
			formatBoolPtr(d.WithinRange),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Weeks lists the distinct prediction weeks.
func (s *PredictionService) Weeks() WeeksInfo {
	weeks := s.store.Weeks()
	info := WeeksInfo{Weeks: weeks, TotalWeeks: len(weeks)}
	if len(weeks) > 0 {
		info.FirstWeek = weeks[0]
		info.LastWeek = weeks[len(weeks)-1]
	}
	return info
}

// Summary computes the dashboard header metrics over all predictions.
func (s *PredictionService) Summary() *ForecastSummary {
	rows := s.store.Predictions()

	out := &ForecastSummary{
		ConfidenceDistribution: map[string]int{},
		PatternDistribution:    map[string]int{},
	}
	if len(rows) == 0 {
		return out
	}

	weeks := make(map[string]struct{})
	customers := make(map[string]struct{})
	items := make(map[string]struct{})
	var actualSum, predictedSum float64
	high := 0
	start, end := rows[0].Date, rows[0].Date
	for _, rec := range rows {
		weeks[rec.Date] = struct{}{}
		customers[rec.CustomerName] = struct{}{}
		items[rec.ItemCode] = struct{}{}
		actualSum += rec.ActualQty
		predictedSum += rec.PredictedQty
		if rec.Confidence != "" {
			out.ConfidenceDistribution[rec.Confidence]++
		}
		if isHighConfidence(rec.Confidence) {
			high++
		}
		if rec.DemandPattern != "" {
			out.PatternDistribution[rec.DemandPattern]++
		}
		if rec.Date < start {
			start = rec.Date
		}
		if rec.Date > end {
			end = rec.Date
		}
	}

	out.TotalPredictions = len(rows)
	out.TotalWeeks = len(weeks)
	out.TotalCustomers = len(customers)
	out.TotalItems = len(items)
	out.DateRange = SummaryRange{
		Start:      start,
		End:        end,
		StartLabel: dataset.WeekRange(start),
		EndLabel:   dataset.WeekRange(end),
	}
	out.HighConfidencePct = float64(high) / float64(len(rows)) * 100
	out.AvgWeeklyDemand = actualSum / float64(len(rows))
	out.AvgPredictedDemand = predictedSum / float64(len(rows))

	return out
}

// Accuracy computes error metrics over the filtered rows.
func (s *PredictionService) Accuracy(q PredictionQuery) domain.AccuracyMetrics {
	return predmetrics.Accuracy(s.filtered(q))
}

// Timeline aggregates actual and predicted sums per week.
func (s *PredictionService) Timeline(q PredictionQuery) []TimelinePoint {
	byDate := filtering.GroupPredictionsByDate(s.filtered(q))

	out := make([]TimelinePoint, 0, byDate.Len())
	for _, week := range byDate.Keys() {
		var actual, predicted float64
		for _, rec := range byDate.Get(week) {
			actual += rec.ActualQty
			predicted += rec.PredictedQty
		}
		out = append(out, TimelinePoint{
			Date:      week,
			WeekLabel: dataset.WeekLabel(week),
			Actual:    actual,
			Predicted: predicted,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	return out
}

// ConfidenceByWeek counts high/low confidence labels per week.
func (s *PredictionService) ConfidenceByWeek(q PredictionQuery) []ConfidenceWeek {
	byDate := filtering.GroupPredictionsByDate(s.filtered(q))

	out := make([]ConfidenceWeek, 0, byDate.Len())
	for _, week := range byDate.Keys() {
		cw := ConfidenceWeek{Week: week}
		for _, rec := range byDate.Get(week) {
			switch {
			case isHighConfidence(rec.Confidence):
				cw.High++
			case isLowConfidence(rec.Confidence):
				cw.Low++
			}
		}
		out = append(out, cw)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })

	return out
}

// DailyBreakdown returns the daily rows inside one week for a
// customer-item pair, tagged with weekday names.
func (s *PredictionService) DailyBreakdown(weekStart, customer, itemCode string) ([]DailyDetail, error) {
	start, err := dataset.ParseDate(weekStart)
	if err != nil {
		return nil, fmt.Errorf("invalid week start %q: %w", weekStart, err)
	}
	end := start.AddDate(0, 0, 6).Format(dataset.DateLayout)
	startStr := start.Format(dataset.DateLayout)

	var out []DailyDetail
	for _, rec := range s.store.Daily() {
		if rec.CustomerName != customer || rec.ItemCode != itemCode {
			continue
		}
		if rec.Date < startStr || rec.Date > end {
			continue
		}
		day := ""
		if t, err := dataset.ParseDate(rec.Date); err == nil {
			day = t.Weekday().String()
		}
		out = append(out, DailyDetail{DailySalesRecord: rec, DayOfWeek: day})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	return out, nil
}

func (s *PredictionService) filtered(q PredictionQuery) []domain.PredictionRecord {
	rows := s.store.Predictions()

	if q.Customer != "" {
		rows = filtering.PredictionsByCustomer(rows, q.Customer)
	}
	if q.ItemCode != "" {
		rows = filtering.PredictionsByItem(rows, q.ItemCode)
	}
	if q.StartWeek != "" || q.EndWeek != "" {
		rows = filtering.PredictionsByDateRange(rows, q.StartWeek, q.EndWeek)
	}
	if q.Confidence != "" {
		rows = filtering.Filter(rows, func(r domain.PredictionRecord) bool {
			return r.Confidence == q.Confidence
		})
	}
	if q.Pattern != "" {
		rows = filtering.Filter(rows, func(r domain.PredictionRecord) bool {
			return r.DemandPattern == q.Pattern
		})
	}

	return rows
}

func (s *PredictionService) series(customer, itemCode string) []domain.PredictionRecord {
	rows := s.store.Predictions()
	if customer != "" {
		rows = filtering.PredictionsByCustomer(rows, customer)
	}
	if itemCode != "" {
		rows = filtering.PredictionsByItem(rows, itemCode)
	}
	return rows
}

// dedupeAcrossSeries keeps one row per (customer, item, week) with
// Train preferred over Test over Forecast. Unlike the per-series dedup
// in predmetrics, Forecast rows survive here; they are the only source
// for future weeks.
func dedupeAcrossSeries(rows []domain.PredictionRecord) []domain.PredictionRecord {
	type key struct {
		customer string
		item     string
		date     string
	}
	priority := func(split string) int {
		switch domain.NormalizeSplit(split) {
		case domain.SplitTrain:
			return 1
		case domain.SplitTest:
			return 2
		case domain.SplitForecast:
			return 3
		}
		return 999
	}

	best := make(map[key]int, len(rows))
	order := make([]key, 0, len(rows))
	for i, rec := range rows {
		k := key{customer: rec.CustomerName, item: rec.ItemCode, date: rec.Date}
		prev, ok := best[k]
		if !ok {
			best[k] = i
			order = append(order, k)
			continue
		}
		if priority(rec.DataSplit) < priority(rows[prev].DataSplit) {
			best[k] = i
		}
	}

	out := make([]domain.PredictionRecord, 0, len(order))
	for _, k := range order {
		out = append(out, rows[best[k]])
	}

	return out
}

func isHighConfidence(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "high")
}

func isLowConfidence(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "low")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
