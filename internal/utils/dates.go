package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by every rental output.
const DateLayout = "2006-01-02"

// parseLayout also takes single-digit months and days, e.g. 2015-12-8.
const parseLayout = "2006-1-2"

// ParseDate converts a yyyy-mm-dd formatted string into a UTC midnight time
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(parseLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %q", dateStr)
	}
	return t, nil
}

// FormatDate renders a calendar date as yyyy-mm-dd
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of whole calendar days from start to end.
// The result is negative when end is before start.
func DaysBetween(startDate, endDate time.Time) int64 {
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.UTC)
	return int64(end.Sub(start).Hours() / 24)
}

// RentalDays counts a rental period with both the start and the end dates
// included, so a same-day rental lasts one day.
func RentalDays(startDate, endDate time.Time) (int64, error) {
	span := DaysBetween(startDate, endDate)
	if span < 0 {
		return 0, fmt.Errorf("end date must be >= start date")
	}
	// NOTE: 2017-12-08 -> 2017-12-10 counts as 3 days, not 2.
	return span + 1, nil
}
