package entity

import "regexp"

var airlineCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)

// Airline represents an airline reference record keyed by its IATA code
type Airline struct {
	Code    string `json:"code" bson:"code"`
	Name    string `json:"name" bson:"name"`
	ICAO    string `json:"icao,omitempty" bson:"icao,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// ValidAirlineCode reports whether code is a 2-3 character uppercase alphanumeric code.
func ValidAirlineCode(code string) bool {
	return airlineCodePattern.MatchString(code)
}
