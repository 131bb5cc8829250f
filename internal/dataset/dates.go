// internal/dataset/dates.go
package dataset

import (
	"fmt"
	"time"
)

// All weekly data uses Sunday as the week END (Monday-Sunday weeks).

const DateLayout = "2006-01-02"

var parseLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/06",
}

// ParseDate parses the date formats the pipeline files are known to emit.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// pyWeekday maps time.Weekday onto Monday=0..Sunday=6, the convention the
// forecast pipeline's week arithmetic is defined in.
func pyWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekEndSunday returns the Sunday that ends the week containing t.
func WeekEndSunday(t time.Time) time.Time {
	return t.AddDate(0, 0, 6-pyWeekday(t))
}

// WeekStartMonday returns the Monday that starts the week containing t.
func WeekStartMonday(t time.Time) time.Time {
	return t.AddDate(0, 0, -pyWeekday(t))
}

// SundayOnOrBefore returns the most recent Sunday on or before t. Where
// WeekEndSunday rounds forward to the week end, this rounds backward,
// matching how order dates are bucketed.
func SundayOnOrBefore(t time.Time) time.Time {
	return t.AddDate(0, 0, -((pyWeekday(t) + 1) % 7))
}

// EnsureSunday converts any date string to the Sunday end of its week.
func EnsureSunday(dateStr string) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD: %w", dateStr, err)
	}

	return WeekEndSunday(t).Format(DateLayout), nil
}

// WeekRange formats a Sunday week-end as "Jan 22 - Jan 28, 2025".
func WeekRange(weekEnd string) string {
	end, err := ParseDate(weekEnd)
	if err != nil {
		return weekEnd
	}
	start := end.AddDate(0, 0, -6)

	return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
}

// WeekLabel formats a Sunday week-end as a short chart label, "Jan 22-28".
func WeekLabel(weekEnd string) string {
	end, err := ParseDate(weekEnd)
	if err != nil {
		return weekEnd
	}
	start := end.AddDate(0, 0, -6)

	return fmt.Sprintf("%s-%s", start.Format("Jan 02"), end.Format("02"))
}

// WeeksInRange returns every Sunday week-end from the week containing
// start through end, inclusive.
func WeeksInRange(startDate, endDate string) ([]string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	var weeks []string
	for cur := WeekEndSunday(start); !cur.After(end); cur = cur.AddDate(0, 0, 7) {
		weeks = append(weeks, cur.Format(DateLayout))
	}

	return weeks, nil
}

// WeekNumber returns the Monday-Sunday week number within the year,
// counted from the year's first Monday and clamped to 1..53. This is not
// an ISO week number.
func WeekNumber(dateStr string) (int, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return 0, err
	}

	weekStart := WeekStartMonday(t)
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	firstMonday := jan1.AddDate(0, 0, (7-pyWeekday(jan1))%7)

	num := int(weekStart.Sub(firstMonday).Hours()/(24*7)) + 1
	if num < 1 {
		num = 1
	}
	if num > 53 {
		num = 53
	}

	return num, nil
}
