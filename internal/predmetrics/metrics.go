// internal/predmetrics/metrics.go
package predmetrics

import (
	"math"

	"github.com/alkhair/demand-analytics/internal/domain"
)

// Metrics converts deduplicated prediction rows into per-week comparison
// metrics. Call Dedupe first; this function trusts one row per week.
func Metrics(records []domain.PredictionRecord) []domain.PredictionMetrics {
	out := make([]domain.PredictionMetrics, 0, len(records))
	for _, rec := range records {
		out = append(out, metricFor(rec))
	}

	return out
}

func metricFor(rec domain.PredictionRecord) domain.PredictionMetrics {
	e := rec.ActualQty - rec.PredictedQty
	abs := math.Abs(e)

	var errPct float64
	if rec.PredictedQty != 0 {
		errPct = abs / rec.PredictedQty * 100
	}

	return domain.PredictionMetrics{
		Week:         rec.Date,
		ActualQty:    rec.ActualQty,
		PredictedQty: rec.PredictedQty,
		Error:        e,
		ErrorPct:     errPct,
		Confidence:   NormalizeConfidence(rec.Confidence),
		AbsError:     abs,
		DataSplit:    domain.NormalizeSplit(rec.DataSplit),
	}
}

// WeekDetail assembles the drill-down record for one week: the
// deduplicated actual/predicted values decorated with rolling averages
// and trend indicators. The indicators deliberately run over the full,
// undeduplicated slice passed in; the dedup rule here must stay
// identical to the one Metrics relies on. Nil when the target week is
// absent from the deduplicated set.
func WeekDetail(records []domain.PredictionRecord, targetWeek string) *domain.WeekDetail {
	deduped := Dedupe(records)

	var target *domain.PredictionRecord
	for i := range deduped {
		if deduped[i].Date == targetWeek {
			target = &deduped[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	m := metricFor(*target)
	rolling := RollingAverages(records, targetWeek)

	return &domain.WeekDetail{
		Week:            m.Week,
		ActualQty:       m.ActualQty,
		PredictedQty:    m.PredictedQty,
		Error:           m.Error,
		ErrorPct:        m.ErrorPct,
		Confidence:      m.Confidence,
		DataSplit:       m.DataSplit,
		RollingAverages: rolling,
		AboveTrend:      IsAboveTrend(m.ActualQty, rolling.Week4Avg),
		StableDemand:    IsStableDemand(records, targetWeek),
		WithinRange:     IsWithinHistoricalRange(m.PredictedQty, records, targetWeek),
	}
}

// WeekDetails builds the detail series for every deduplicated week in
// ascending order.
func WeekDetails(records []domain.PredictionRecord) []domain.WeekDetail {
	deduped := Dedupe(records)

	out := make([]domain.WeekDetail, 0, len(deduped))
	for _, rec := range deduped {
		if d := WeekDetail(records, rec.Date); d != nil {
			out = append(out, *d)
		}
	}

	return out
}
