package utils

import (
	"regexp"
	"strings"
)

var (
	leadingCodeRegex     = regexp.MustCompile(`^([A-Za-z]{3})(?:\s*[-–(]|$)`)
	parenthesizedIATARex = regexp.MustCompile(`\(([A-Z]{3})\)`)
)

// ExtractAirportCode pulls an IATA code from user input such as "JFK",
// "jfk - New York" or "LHR(London)". It returns "" when the input does not
// start with a code.
func ExtractAirportCode(input string) string {
	matches := leadingCodeRegex.FindStringSubmatch(strings.TrimSpace(input))
	if len(matches) > 1 {
		return strings.ToUpper(matches[1])
	}
	return ""
}

// ParenthesizedCode extracts a code written as "(XXX)" inside a place name,
// e.g. "Heathrow Airport (LHR)".
func ParenthesizedCode(name string) string {
	matches := parenthesizedIATARex.FindStringSubmatch(name)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// ContainsFold reports whether substr is within s, ignoring case. An empty
// substr always matches.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
