package model

import (
	"sort"
	"strings"
	"time"
)

// MonthLayout is the display layout for a calendar month.
const MonthLayout = "2006-01"

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01",
	"2006/01/02",
	"02/01/2006",
	"02.01.2006",
	"02-01-2006",
}

// TruncateMonth returns the first instant of t's month in UTC.
func TruncateMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the month after m.
func NextMonth(m time.Time) time.Time {
	return TruncateMonth(m).AddDate(0, 1, 0)
}

// MonthsBetween counts whole months from a to b.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// ParseDate parses a date in any supported layout.
// Empty or unparseable input returns false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseMonth parses a date and truncates it to the month.
func ParseMonth(s string) (time.Time, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return time.Time{}, false
	}
	return TruncateMonth(t), true
}

// FormatMonth renders a month as YYYY-MM.
func FormatMonth(t time.Time) string {
	return t.Format(MonthLayout)
}

func sortMonths(months []time.Time) {
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
}
