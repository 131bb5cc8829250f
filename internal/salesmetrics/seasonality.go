// internal/salesmetrics/seasonality.go
package salesmetrics

import (
	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
)

// WeekOfYearBucket maps a date to a 1-52 seasonal bucket by dividing the
// day of year by 7. This is a bucketing scheme, not ISO week numbering:
// late-December days land in bucket 52 rather than week 53 or week 1 of
// the next year, which keeps year-over-year buckets aligned.
func WeekOfYearBucket(dateStr string) (int, bool) {
	t, err := dataset.ParseDate(dateStr)
	if err != nil {
		return 0, false
	}

	bucket := (t.YearDay()-1)/7 + 1
	if bucket > 52 {
		bucket = 52
	}

	return bucket, true
}

// DemandByWeekOfYear averages quantity per seasonal bucket across all
// years in the data. Buckets with no observations are omitted.
func DemandByWeekOfYear(records []domain.WeeklySalesRecord) []domain.SeasonalityBucket {
	sums := make([]float64, 53)
	counts := make([]int, 53)

	for _, rec := range records {
		bucket, ok := WeekOfYearBucket(rec.Date)
		if !ok {
			continue
		}
		sums[bucket] += rec.TotalQuantity
		counts[bucket]++
	}

	out := make([]domain.SeasonalityBucket, 0, 52)
	for bucket := 1; bucket <= 52; bucket++ {
		if counts[bucket] == 0 {
			continue
		}
		out = append(out, domain.SeasonalityBucket{
			WeekOfYear:  bucket,
			AvgQuantity: sums[bucket] / float64(counts[bucket]),
		})
	}

	return out
}
