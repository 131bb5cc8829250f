// internal/dataset/store.go
package dataset

import (
	"sort"
	"sync"

	"github.com/alkhair/demand-analytics/internal/domain"
)

// Store holds the loaded dataset in memory. Reads vastly outnumber
// writes; writes happen only when the ingest endpoint swaps in fresh
// files. Callers must treat returned slices as read-only.
type Store struct {
	mu sync.RWMutex

	weekly      []domain.WeeklySalesRecord
	daily       []domain.DailySalesRecord
	predictions []domain.PredictionRecord
	// dailyWeekly is the Sunday-end rollup of the daily rows, kept for
	// analytics queries that want daily-sourced weeks.
	dailyWeekly []domain.WeeklySalesRecord
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps the entire dataset atomically.
func (s *Store) Replace(
	weekly []domain.WeeklySalesRecord,
	daily []domain.DailySalesRecord,
	predictions []domain.PredictionRecord,
	dailyWeekly []domain.WeeklySalesRecord,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.weekly = weekly
	s.daily = daily
	s.predictions = predictions
	s.dailyWeekly = dailyWeekly
}

func (s *Store) Weekly() []domain.WeeklySalesRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weekly
}

func (s *Store) Daily() []domain.DailySalesRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.daily
}

func (s *Store) Predictions() []domain.PredictionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.predictions
}

func (s *Store) DailyWeekly() []domain.WeeklySalesRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dailyWeekly
}

// Customers returns the sorted distinct customer names across the
// prediction data.
func (s *Store) Customers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var names []string
	for _, rec := range s.predictions {
		if _, ok := seen[rec.CustomerName]; ok {
			continue
		}
		seen[rec.CustomerName] = struct{}{}
		names = append(names, rec.CustomerName)
	}
	sort.Strings(names)

	return names
}

// Items returns distinct (code, name) item pairs sorted by name.
func (s *Store) Items() []domain.MarketShareItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var items []domain.MarketShareItem
	for _, rec := range s.predictions {
		if _, ok := seen[rec.ItemCode]; ok {
			continue
		}
		seen[rec.ItemCode] = struct{}{}
		items = append(items, domain.MarketShareItem{ItemCode: rec.ItemCode, ItemName: rec.ItemName})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemName < items[j].ItemName })

	return items
}

// Patterns returns the sorted distinct demand pattern labels.
func (s *Store) Patterns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var patterns []string
	for _, rec := range s.predictions {
		if rec.DemandPattern == "" {
			continue
		}
		if _, ok := seen[rec.DemandPattern]; ok {
			continue
		}
		seen[rec.DemandPattern] = struct{}{}
		patterns = append(patterns, rec.DemandPattern)
	}
	sort.Strings(patterns)

	return patterns
}

// Weeks returns the sorted distinct prediction week-end dates.
func (s *Store) Weeks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var weeks []string
	for _, rec := range s.predictions {
		if _, ok := seen[rec.Date]; ok {
			continue
		}
		seen[rec.Date] = struct{}{}
		weeks = append(weeks, rec.Date)
	}
	sort.Strings(weeks)

	return weeks
}
