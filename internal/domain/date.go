package domain

import (
	"strings"
	"time"
)

// FirstImageDate is the first day NASA published an Astronomy Picture of the Day
var FirstImageDate = time.Date(1995, time.June, 16, 0, 0, 0, 0, time.UTC)

// ParseDate parses a YYYY-MM-DD calendar date as midnight in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: "Invalid date " + quote(s) + ". Dates must be formatted YYYY-MM-DD."}
	}
	return t, nil
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last representable instant of t's day in its own location
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthDay renders the "MM-DD" key of t
func MonthDay(t time.Time) string {
	return t.Format("01-02")
}

func quote(s string) string {
	return `"` + s + `"`
}
