package entity

import (
	"regexp"
	"strings"
)

var airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Airport represents an airport reference record keyed by its IATA code
type Airport struct {
	Code        string       `json:"code" bson:"code"`
	Name        string       `json:"name" bson:"name"`
	City        string       `json:"city" bson:"city"`
	Country     string       `json:"country" bson:"country"`
	ICAO        string       `json:"icao,omitempty" bson:"icao,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Timezone    string       `json:"timezone,omitempty" bson:"timezone,omitempty"`
	Elevation   *int         `json:"elevation,omitempty" bson:"elevation,omitempty"`
}

// Ref returns the compact airport reference embedded in flights.
func (a Airport) Ref() AirportRef {
	return AirportRef{Code: a.Code, Name: a.Name, City: a.City, Country: a.Country}
}

// NormalizeCode upper-cases and trims an IATA/ICAO code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidAirportCode reports whether code is a three letter uppercase IATA code.
func ValidAirportCode(code string) bool {
	return airportCodePattern.MatchString(code)
}
