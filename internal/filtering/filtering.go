// internal/filtering/filtering.go
package filtering

import "github.com/alkhair/demand-analytics/internal/domain"

// Date-range filters compare date strings lexically; callers must supply
// dates in a consistently sortable format (the dataset loader normalizes
// everything to YYYY-MM-DD).

// Filter returns the records matching keep, preserving order.
func Filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}

	return out
}

// WeeklyByCustomer keeps rows with an exactly matching customer name.
func WeeklyByCustomer(records []domain.WeeklySalesRecord, customer string) []domain.WeeklySalesRecord {
	return Filter(records, func(r domain.WeeklySalesRecord) bool { return r.CustomerName == customer })
}

// WeeklyByItem keeps rows with an exactly matching item code.
func WeeklyByItem(records []domain.WeeklySalesRecord, itemCode string) []domain.WeeklySalesRecord {
	return Filter(records, func(r domain.WeeklySalesRecord) bool { return r.ItemCode == itemCode })
}

// WeeklyByItems keeps rows whose item code is in the given set.
func WeeklyByItems(records []domain.WeeklySalesRecord, itemCodes []string) []domain.WeeklySalesRecord {
	set := make(map[string]struct{}, len(itemCodes))
	for _, code := range itemCodes {
		set[code] = struct{}{}
	}

	return Filter(records, func(r domain.WeeklySalesRecord) bool {
		_, ok := set[r.ItemCode]
		return ok
	})
}

// WeeklyByDateRange keeps rows inside the inclusive [start, end] range.
// An empty bound leaves that side open.
func WeeklyByDateRange(records []domain.WeeklySalesRecord, start, end string) []domain.WeeklySalesRecord {
	return Filter(records, func(r domain.WeeklySalesRecord) bool {
		return inRange(r.Date, start, end)
	})
}

// PredictionsByCustomer keeps rows with an exactly matching customer name.
func PredictionsByCustomer(records []domain.PredictionRecord, customer string) []domain.PredictionRecord {
	return Filter(records, func(r domain.PredictionRecord) bool { return r.CustomerName == customer })
}

// PredictionsByItem keeps rows with an exactly matching item code.
func PredictionsByItem(records []domain.PredictionRecord, itemCode string) []domain.PredictionRecord {
	return Filter(records, func(r domain.PredictionRecord) bool { return r.ItemCode == itemCode })
}

// PredictionsByItems keeps rows whose item code is in the given set.
func PredictionsByItems(records []domain.PredictionRecord, itemCodes []string) []domain.PredictionRecord {
	set := make(map[string]struct{}, len(itemCodes))
	for _, code := range itemCodes {
		set[code] = struct{}{}
	}

	return Filter(records, func(r domain.PredictionRecord) bool {
		_, ok := set[r.ItemCode]
		return ok
	})
}

// PredictionsByDateRange keeps rows inside the inclusive [start, end]
// range; empty bounds are open.
func PredictionsByDateRange(records []domain.PredictionRecord, start, end string) []domain.PredictionRecord {
	return Filter(records, func(r domain.PredictionRecord) bool {
		return inRange(r.Date, start, end)
	})
}

// PredictionsBySplit keeps rows with the given DataSplit label.
func PredictionsBySplit(records []domain.PredictionRecord, split string) []domain.PredictionRecord {
	return Filter(records, func(r domain.PredictionRecord) bool { return r.DataSplit == split })
}

func inRange(date, start, end string) bool {
	if start != "" && date < start {
		return false
	}
	if end != "" && date > end {
		return false
	}

	return true
}
