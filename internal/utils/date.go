package utils

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the calendar-day display format, e.g. "Sun Jan 15 2023".
const DayLayout = "Mon Jan 02 2006"

// Accepted input layouts, tried in order. DayLayout is included so that a
// formatted day parses back to the same day.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DayLayout,
}

// ParseDate parses an ISO-like date or timestamp. The result is in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// TruncateDay drops the time of day, returning midnight UTC of t's UTC day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders t as a calendar day with no time component.
func FormatDay(t time.Time) string {
	return TruncateDay(t).Format(DayLayout)
}

// NormalizeDay re-renders any accepted date string in DayLayout.
func NormalizeDay(value string) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return FormatDay(t), nil
}

// WithinDays reports whether t falls on a day in [from, to]. Nil bounds are open.
func WithinDays(t time.Time, from, to *time.Time) bool {
	day := TruncateDay(t)
	if from != nil && day.Before(TruncateDay(*from)) {
		return false
	}
	if to != nil && day.After(TruncateDay(*to)) {
		return false
	}
	return true
}
