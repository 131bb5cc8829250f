// internal/filtering/groupby.go
package filtering

import "github.com/alkhair/demand-analytics/internal/domain"

// Grouped is a key->records mapping that remembers the order keys were
// first seen. Record order within each group matches the input.
type Grouped[T any] struct {
	keys   []string
	groups map[string][]T
}

// GroupBy buckets records by the given key function.
func GroupBy[T any](records []T, key func(T) string) *Grouped[T] {
	g := &Grouped[T]{groups: make(map[string][]T)}
	for _, rec := range records {
		k := key(rec)
		if _, ok := g.groups[k]; !ok {
			g.keys = append(g.keys, k)
		}
		g.groups[k] = append(g.groups[k], rec)
	}

	return g
}

// Keys returns the group keys in first-occurrence order.
func (g *Grouped[T]) Keys() []string {
	return g.keys
}

// Get returns the records for a key, nil when absent.
func (g *Grouped[T]) Get(key string) []T {
	return g.groups[key]
}

// Len returns the number of groups.
func (g *Grouped[T]) Len() int {
	return len(g.keys)
}

// GroupWeeklyByWeek buckets weekly sales rows by week-end date.
func GroupWeeklyByWeek(records []domain.WeeklySalesRecord) *Grouped[domain.WeeklySalesRecord] {
	return GroupBy(records, func(r domain.WeeklySalesRecord) string { return r.Date })
}

// GroupWeeklyBySKU buckets weekly sales rows by item code.
func GroupWeeklyBySKU(records []domain.WeeklySalesRecord) *Grouped[domain.WeeklySalesRecord] {
	return GroupBy(records, func(r domain.WeeklySalesRecord) string { return r.ItemCode })
}

// GroupWeeklyByCustomer buckets weekly sales rows by customer name.
func GroupWeeklyByCustomer(records []domain.WeeklySalesRecord) *Grouped[domain.WeeklySalesRecord] {
	return GroupBy(records, func(r domain.WeeklySalesRecord) string { return r.CustomerName })
}

// GroupPredictionsByDate buckets prediction rows by week-end date.
func GroupPredictionsByDate(records []domain.PredictionRecord) *Grouped[domain.PredictionRecord] {
	return GroupBy(records, func(r domain.PredictionRecord) string { return r.Date })
}
