// Package dateutils provides the date parsing helpers used throughout the
// application. Brazilian fiscal documents are day-first; XML invoices carry
// ISO 8601 timestamps.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutBrazilian = "02/01/2006"
	DateLayoutBRTime    = "02/01/2006 15:04"
	DateLayoutFull      = "2006-01-02 15:04:05"
)

// CommonFormats is a list of formats to try when parsing dates, ordered so
// that day-first Brazilian layouts win over ambiguous alternatives.
var CommonFormats = []string{
	DateLayoutBRTime,
	DateLayoutBrazilian,
	"02/01/2006 15:04:05",
	"02-01-2006",
	"02.01.2006",
	DateLayoutISO,
	DateLayoutFull,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/2006",
	"January 2006",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace in a date string.
func CleanDateString(dateStr string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate attempts to parse a date string using the common formats.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("empty date string")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseDateString parses a date string, returning the zero time for empty
// input. Unparsable non-empty input is an error.
func ParseDateString(dateStr string) (time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return time.Time{}, nil
	}
	t, _, err := ParseDate(dateStr)
	return t, err
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
// Zero times render as the empty string.
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// ToBrazilianFormat formats a time.Time as DD/MM/YYYY.
// Zero times render as the empty string.
func ToBrazilianFormat(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutBrazilian)
}

// TimestampSuffix returns the compact timestamp used in export filenames,
// DDMMYYYYHHMMSS plus milliseconds.
func TimestampSuffix(now time.Time) string {
	return now.Format("02012006150405") + fmt.Sprintf("%03d", now.Nanosecond()/1e6)
}
