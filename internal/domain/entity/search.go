package entity

import "time"

// Result sources reported to clients.
const (
	SourceLive      = "live"
	SourceCatalog   = "catalog"
	SourceGenerated = "generated"
	SourceNone      = "none"
)

// ListQuery filters airport and airline listings
type ListQuery struct {
	Query   string `json:"query" validate:"max=100"`
	Country string `json:"country" validate:"max=64"`
	Limit   int    `json:"limit" validate:"gte=0,lte=1000"`
}

// FlightSearchRequest is a route search. Origin and destination accept an IATA
// code, an airport name or a city.
type FlightSearchRequest struct {
	Origin      string    `json:"origin" validate:"required,max=100"`
	Destination string    `json:"destination" validate:"required,max=100"`
	Airline     string    `json:"airline" validate:"max=100"`
	Country     string    `json:"country" validate:"max=64"`
	Date        time.Time `json:"date"`
	Limit       int       `json:"limit" validate:"gte=0,lte=100"`
}

// RouteQuery is the resolved form of a search handed to flight feeds
type RouteQuery struct {
	Origin      Airport
	Destination Airport
	AirlineCode string
}

// AirportList is the response of an airport listing
type AirportList struct {
	Airports  []Airport `json:"airports"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// AirlineList is the response of an airline listing
type AirlineList struct {
	Airlines  []Airline `json:"airlines"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// FlightList is the response of a flight search or airline schedule
type FlightList struct {
	Flights   []Flight  `json:"flights"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// AirportStatistics are illustrative facility numbers shown on the airport page
type AirportStatistics struct {
	Terminals      int    `json:"terminals"`
	Gates          int    `json:"gates"`
	Runways        int    `json:"runways"`
	OperatingHours string `json:"operatingHours"`
	DailyFlights   int    `json:"dailyFlights"`
	Airlines       int    `json:"airlines"`
	Destinations   int    `json:"destinations"`
}

// AirportInfo is an airport with its statistics and departures board
type AirportInfo struct {
	Airport    Airport           `json:"airport"`
	Statistics AirportStatistics `json:"statistics"`
	Departures []Flight          `json:"departures"`
	Timestamp  time.Time         `json:"timestamp"`
}
