// internal/dataset/loader.go
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/alkhair/demand-analytics/internal/config"
	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Loader reads the forecast pipeline's CSV output files into typed
// records. Missing files are tolerated: the affected slice stays empty
// and the API degrades to empty results, matching the pipeline's
// partial-output behavior during reruns.
type Loader struct {
	weeklyPath      string
	dailyPath       string
	predictionsPath string
}

func NewLoader(cfg config.DataConfig) *Loader {
	return &Loader{
		weeklyPath:      filepath.Join(cfg.Dir, cfg.WeeklyFile),
		dailyPath:       filepath.Join(cfg.Dir, cfg.DailyFile),
		predictionsPath: filepath.Join(cfg.Dir, cfg.PredictionsFile),
	}
}

// Load reads all three files concurrently and assembles the store.
func (l *Loader) Load() (*Store, error) {
	var (
		weekly      []domain.WeeklySalesRecord
		daily       []domain.DailySalesRecord
		predictions []domain.PredictionRecord
	)

	var g errgroup.Group
	g.Go(func() error {
		rows, err := readCSVRows(l.weeklyPath)
		if err != nil {
			log.Warn().Err(err).Str("path", l.weeklyPath).Msg("weekly training data unavailable")
			return nil
		}
		weekly = parseWeeklyRows(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := readCSVRows(l.dailyPath)
		if err != nil {
			log.Warn().Err(err).Str("path", l.dailyPath).Msg("daily training data unavailable")
			return nil
		}
		daily = parseDailyRows(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := readCSVRows(l.predictionsPath)
		if err != nil {
			log.Warn().Err(err).Str("path", l.predictionsPath).Msg("predictions unavailable")
			return nil
		}
		predictions = parsePredictionRows(rows)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	standardizeWeeklyCustomerIDs(weekly)
	standardizeDailyCustomerIDs(daily)
	standardizePredictions(predictions)
	assignTestDate(predictions)

	store := NewStore()
	store.Replace(weekly, daily, predictions, AggregateDailyToWeekly(daily))

	log.Info().
		Int("weekly", len(weekly)).
		Int("daily", len(daily)).
		Int("predictions", len(predictions)).
		Msg("dataset loaded")

	return store, nil
}

// Reload re-reads the files and swaps the result into an existing store.
func (l *Loader) Reload(store *Store) error {
	fresh, err := l.Load()
	if err != nil {
		return err
	}

	store.Replace(fresh.Weekly(), fresh.Daily(), fresh.Predictions(), fresh.DailyWeekly())
	return nil
}

// readCSVRows reads a CSV file into header-keyed rows.
func readCSVRows(path string) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows []map[string]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseWeeklyRows(rows []map[string]any) []domain.WeeklySalesRecord {
	records := make([]domain.WeeklySalesRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := domain.ParseWeeklySalesRow(row)
		if !ok {
			continue
		}
		if t, err := ParseDate(rec.Date); err == nil {
			rec.Date = t.Format(DateLayout)
		}
		records = append(records, rec)
	}

	return records
}

func parseDailyRows(rows []map[string]any) []domain.DailySalesRecord {
	records := make([]domain.DailySalesRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := domain.ParseDailySalesRow(row)
		if !ok {
			continue
		}
		if t, err := ParseDate(rec.Date); err == nil {
			rec.Date = t.Format(DateLayout)
		}
		records = append(records, rec)
	}

	return records
}

func parsePredictionRows(rows []map[string]any) []domain.PredictionRecord {
	records := make([]domain.PredictionRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := domain.ParsePredictionRow(row)
		if !ok {
			continue
		}
		if t, err := ParseDate(rec.Date); err == nil {
			rec.Date = t.Format(DateLayout)
		}
		records = append(records, rec)
	}

	return records
}

// standardizeWeeklyCustomerIDs gives every customer name one canonical
// ID, the first non-empty ID seen for that name.
func standardizeWeeklyCustomerIDs(records []domain.WeeklySalesRecord) {
	ids := make(map[string]string)
	for _, rec := range records {
		if _, ok := ids[rec.CustomerName]; !ok && rec.CustomerID != "" {
			ids[rec.CustomerName] = rec.CustomerID
		}
	}
	for i := range records {
		if id, ok := ids[records[i].CustomerName]; ok {
			records[i].CustomerID = id
		}
	}
}

func standardizeDailyCustomerIDs(records []domain.DailySalesRecord) {
	ids := make(map[string]string)
	for _, rec := range records {
		if _, ok := ids[rec.CustomerName]; !ok && rec.CustomerID != "" {
			ids[rec.CustomerName] = rec.CustomerID
		}
	}
	for i := range records {
		if id, ok := ids[records[i].CustomerName]; ok {
			records[i].CustomerID = id
		}
	}
}

// standardizePredictions makes naming consistent across rows: every
// ItemCode gets the first ItemName seen for it. Rows are never dropped
// here; only the labels are unified.
func standardizePredictions(records []domain.PredictionRecord) {
	itemNames := make(map[string]string)
	for _, rec := range records {
		if _, ok := itemNames[rec.ItemCode]; !ok {
			itemNames[rec.ItemCode] = rec.ItemName
		}
	}

	for i := range records {
		records[i].ItemName = itemNames[records[i].ItemCode]
	}
}

// assignTestDate stamps every prediction row with the dataset's test
// date: the latest Test-split week, falling back to the latest week of
// any split when no Test rows exist.
func assignTestDate(records []domain.PredictionRecord) {
	var testDate, maxDate string
	for _, rec := range records {
		if rec.Date > maxDate {
			maxDate = rec.Date
		}
		if rec.DataSplit == domain.SplitTest && rec.Date > testDate {
			testDate = rec.Date
		}
	}
	if testDate == "" {
		testDate = maxDate
	}

	for i := range records {
		records[i].TestDate = testDate
	}
}

// AggregateDailyToWeekly rolls daily rows up to Sunday-end weeks, summing
// quantity per (week, customer, item).
func AggregateDailyToWeekly(daily []domain.DailySalesRecord) []domain.WeeklySalesRecord {
	if len(daily) == 0 {
		return nil
	}

	type key struct {
		week         string
		customerID   string
		customerName string
		itemCode     string
	}

	totals := make(map[key]*domain.WeeklySalesRecord)
	order := make([]key, 0)
	for _, rec := range daily {
		t, err := ParseDate(rec.Date)
		if err != nil {
			continue
		}
		k := key{
			week:         WeekEndSunday(t).Format(DateLayout),
			customerID:   rec.CustomerID,
			customerName: rec.CustomerName,
			itemCode:     rec.ItemCode,
		}
		if agg, ok := totals[k]; ok {
			agg.TotalQuantity += rec.TotalQuantity
			continue
		}
		totals[k] = &domain.WeeklySalesRecord{
			Date:          k.week,
			CustomerID:    rec.CustomerID,
			CustomerName:  rec.CustomerName,
			ItemCode:      rec.ItemCode,
			ItemName:      rec.ItemName,
			TotalQuantity: rec.TotalQuantity,
		}
		order = append(order, k)
	}

	weekly := make([]domain.WeeklySalesRecord, 0, len(totals))
	for _, k := range order {
		weekly = append(weekly, *totals[k])
	}
	sort.Slice(weekly, func(i, j int) bool { return weekly[i].Date < weekly[j].Date })

	return weekly
}
