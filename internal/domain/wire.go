// internal/domain/wire.go
package domain

import (
	"strconv"
	"strings"
)

// The upstream pipeline emits loosely-typed rows: item codes arrive as
// numbers or strings, numeric fields may be blank, confidence is numeric
// or categorical. Everything crossing into the typed records goes through
// this single boundary so consumers never see raw wire values.

// WireValue converts a string-or-number wire field to its string form.
func WireValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; integral codes keep no decimals.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// WireFloat converts a string-or-number wire field to float64, defaulting
// missing or malformed values to 0.
func WireFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "nan") {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// ParseWeeklySalesRow builds a typed weekly sales record from a wire row.
// Rows without a date or item code are rejected.
func ParseWeeklySalesRow(row map[string]any) (WeeklySalesRecord, bool) {
	rec := WeeklySalesRecord{
		Date:          WireValue(row["TrxDate"]),
		CustomerID:    WireValue(row["CustomerID"]),
		CustomerName:  WireValue(row["CustomerName"]),
		ItemCode:      WireValue(row["ItemCode"]),
		ItemName:      WireValue(row["ItemName"]),
		TotalQuantity: WireFloat(row["TotalQuantity"]),
	}

	if rec.Date == "" || rec.ItemCode == "" {
		return WeeklySalesRecord{}, false
	}

	return rec, true
}

// ParseDailySalesRow builds a typed daily sales record from a wire row.
func ParseDailySalesRow(row map[string]any) (DailySalesRecord, bool) {
	rec := DailySalesRecord{
		Date:          WireValue(row["TrxDate"]),
		CustomerID:    WireValue(row["CustomerID"]),
		CustomerName:  WireValue(row["CustomerName"]),
		ItemCode:      WireValue(row["ItemCode"]),
		ItemName:      WireValue(row["ItemName"]),
		TotalQuantity: WireFloat(row["TotalQuantity"]),
	}

	if rec.Date == "" || rec.ItemCode == "" {
		return DailySalesRecord{}, false
	}

	return rec, true
}

// ParsePredictionRow builds a typed prediction record from a wire row.
// The pipeline names the actual column TotalQuantity and the prediction
// column Predicted; both aliases are accepted.
func ParsePredictionRow(row map[string]any) (PredictionRecord, bool) {
	actual, ok := row["ActualQty"]
	if !ok {
		actual = row["TotalQuantity"]
	}
	predicted, ok := row["PredictedQty"]
	if !ok {
		predicted = row["Predicted"]
	}

	rec := PredictionRecord{
		Date:          WireValue(row["TrxDate"]),
		CustomerName:  WireValue(row["CustomerName"]),
		ItemCode:      WireValue(row["ItemCode"]),
		ItemName:      WireValue(row["ItemName"]),
		ActualQty:     WireFloat(actual),
		PredictedQty:  WireFloat(predicted),
		Confidence:    WireValue(row["Confidence"]),
		DemandPattern: WireValue(row["Demand_Pattern"]),
		TestDate:      WireValue(row["TestDate"]),
		DataSplit:     NormalizeSplit(WireValue(row["DataSplit"])),
	}

	if rec.Date == "" || rec.ItemCode == "" {
		return PredictionRecord{}, false
	}

	return rec, true
}
