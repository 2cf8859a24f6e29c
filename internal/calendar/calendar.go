// Package calendar provides the ISO day arithmetic behind the summary
// aggregates: strict day parsing, Monday-start week bounds, and calendar
// month bounds.
package calendar

import (
	"fmt"
	"time"
)

// DayLayout is the ISO calendar date layout used throughout the API and
// storage. ISO dates sort correctly as strings, which the range queries
// rely on.
const DayLayout = "2006-01-02"

// Today returns today's date as an ISO day string in server-local time.
func Today() string {
	return time.Now().Format(DayLayout)
}

// DayString formats a date as an ISO day string.
func DayString(d time.Time) string {
	return d.Format(DayLayout)
}

// ParseDay parses a strict YYYY-MM-DD day string.
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: use YYYY-MM-DD", s)
	}
	return d, nil
}

// WeekBounds returns the Monday and Sunday of d's week, inclusive.
func WeekBounds(d time.Time) (time.Time, time.Time) {
	// time.Weekday counts Sunday as 0; shift so Monday is the week start.
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	return start, end
}

// MonthBounds returns the first and last day of d's month, inclusive.
func MonthBounds(d time.Time) (time.Time, time.Time) {
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}

// HourOf returns the server-local hour of day (0..23) for a unix
// millisecond timestamp. This is the histogram bucketing rule.
func HourOf(tsMillis int64) int {
	return time.UnixMilli(tsMillis).Hour()
}

// LocalTimeString renders a unix millisecond timestamp as a server-local
// "YYYY-MM-DD HH:MM:SS" string for CSV export.
func LocalTimeString(tsMillis int64) string {
	return time.UnixMilli(tsMillis).Format("2006-01-02 15:04:05")
}
