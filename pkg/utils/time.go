package utils

import (
	"time"
)

// DateFormat day-granularity format used in user-facing replies
const DateFormat = "2006-01-02"

// GetCurrentTimestamp get current timestamp (seconds)
func GetCurrentTimestamp() int64 {
	return time.Now().Unix()
}

// DaysAgo returns the UTC instant the given number of days before from
func DaysAgo(from time.Time, days int) time.Time {
	return from.UTC().AddDate(0, 0, -days)
}

// DaysAgoISO returns DaysAgo formatted as RFC3339
func DaysAgoISO(from time.Time, days int) string {
	return DaysAgo(from, days).Format(time.RFC3339)
}

// FormatISO formats t as RFC3339
func FormatISO(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseISO parses an RFC3339 timestamp
func ParseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
