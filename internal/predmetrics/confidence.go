// internal/predmetrics/confidence.go
package predmetrics

import (
	"strconv"
	"strings"
)

// NormalizeConfidence maps a raw confidence value to a 0-100 score.
// Numeric strings pass through unchanged; the categorical labels map to
// fixed midpoints, and anything unrecognized falls back to 50.
func NormalizeConfidence(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 50
	}

	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v
	}

	switch strings.ToLower(trimmed) {
	case "high":
		return 80
	case "medium":
		return 50
	case "low":
		return 20
	default:
		return 50
	}
}
