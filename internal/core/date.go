package core

import (
	"regexp"
	"time"
)

// DateLayout is the canonical on-disk date format for all log records.
// Log dates carry no time-of-day or timezone component.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate reports whether s is a well-formed YYYY-MM-DD date that
// denotes a real calendar day.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.ParseInLocation(DateLayout, s, time.UTC)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar value.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current local calendar day as a YYYY-MM-DD string.
// Local time is deliberate: log dates reflect the user's day, not UTC.
func Today() string {
	return time.Now().Format(DateLayout)
}
