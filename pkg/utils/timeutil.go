package utils

import (
	"fmt"
	"strings"
	"time"
)

// DATE_LAYOUT is the travel date format accepted from clients.
const DATE_LAYOUT = "2006-01-02"

// LoadLocationOrUTC loads an IANA zone, falling back to UTC for empty or
// unknown names.
func LoadLocationOrUTC(tzName string) *time.Location {
	if tzName == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseTravelDate parses a YYYY-MM-DD date at UTC midnight. An empty string
// yields the zero time.
func ParseTravelDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DATE_LAYOUT, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// AtLocalTime returns the given calendar day at hour:minute in loc.
func AtLocalTime(day time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
}
