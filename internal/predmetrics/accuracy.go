// internal/predmetrics/accuracy.go
package predmetrics

import (
	"math"

	"github.com/alkhair/demand-analytics/internal/domain"
)

// Accuracy computes model error statistics over deduplicated, date-sorted
// prediction rows. MAPE only considers weeks with nonzero actuals and is
// nil when there are none; MASE scales against the naive lag-1 forecast
// and is nil when that baseline has zero error.
func Accuracy(records []domain.PredictionRecord) domain.AccuracyMetrics {
	deduped := Dedupe(records)
	n := len(deduped)
	if n == 0 {
		return domain.AccuracyMetrics{}
	}

	var absSum, sqSum, actualSum, predSum float64
	var pctSum float64
	pctN := 0
	for _, rec := range deduped {
		e := rec.ActualQty - rec.PredictedQty
		absSum += math.Abs(e)
		sqSum += e * e
		actualSum += rec.ActualQty
		predSum += rec.PredictedQty
		if rec.ActualQty != 0 {
			pctSum += math.Abs(e / rec.ActualQty)
			pctN++
		}
	}

	out := domain.AccuracyMetrics{
		MAE:           absSum / float64(n),
		RMSE:          math.Sqrt(sqSum / float64(n)),
		Samples:       n,
		MeanActual:    actualSum / float64(n),
		MeanPredicted: predSum / float64(n),
	}

	if pctN > 0 {
		mape := pctSum / float64(pctN) * 100
		out.MAPE = &mape
	}

	if n > 1 {
		var naiveSum float64
		for i := 1; i < n; i++ {
			naiveSum += math.Abs(deduped[i].ActualQty - deduped[i-1].ActualQty)
		}
		naiveMAE := naiveSum / float64(n-1)
		if naiveMAE > 0 {
			mase := out.MAE / naiveMAE
			out.MASE = &mase
		}
	}

	return out
}
