// internal/domain/entity/flight.go
package entity

import (
	"time"
)

// FlightStatus is the display status of a flight
type FlightStatus string

const (
	StatusOnTime    FlightStatus = "On Time"
	StatusDelayed   FlightStatus = "Delayed"
	StatusBoarding  FlightStatus = "Boarding"
	StatusDeparted  FlightStatus = "Departed"
	StatusCancelled FlightStatus = "Cancelled"
	StatusScheduled FlightStatus = "Scheduled"
	StatusActive    FlightStatus = "Active"
	StatusLanded    FlightStatus = "Landed"
)

// ProvenanceGenerator tags flights fabricated by the fallback generator.
// Live flights carry the name of the feed that produced them.
const ProvenanceGenerator = "generator"

// AirportRef identifies an airport inside a flight record
type AirportRef struct {
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// FlightEndpoint is one end of a flight
type FlightEndpoint struct {
	Airport  AirportRef `json:"airport"`
	Time     time.Time  `json:"time"`
	Terminal string     `json:"terminal,omitempty"`
	Gate     string     `json:"gate,omitempty"`
}

// Position is the last reported position of an airborne flight
type Position struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Altitude float64 `json:"altitude"`
	Velocity float64 `json:"velocity"`
}

// Flight is the canonical flight record produced by every feed and by the generator
type Flight struct {
	ID              string         `json:"id"`
	AirlineCode     string         `json:"airlineCode"`
	AirlineName     string         `json:"airlineName"`
	FlightNumber    string         `json:"flightNumber"`
	Departure       FlightEndpoint `json:"departure"`
	Arrival         FlightEndpoint `json:"arrival"`
	DurationMinutes int            `json:"durationMinutes"`
	Price           float64        `json:"price"`
	Status          FlightStatus   `json:"status"`
	AircraftType    string         `json:"aircraftType,omitempty"`
	Provenance      string         `json:"provenance"`
	Simulated       bool           `json:"simulated"`
	Position        *Position      `json:"position,omitempty"`
}

// HasRoute reports whether both endpoints carry an airport code.
func (f Flight) HasRoute() bool {
	return f.Departure.Airport.Code != "" && f.Arrival.Airport.Code != ""
}

// AircraftState is the subset of an OpenSky state vector the service uses
type AircraftState struct {
	ICAO24        string
	Callsign      string
	OriginCountry string
	Lat           float64
	Lng           float64
	Altitude      float64 // barometric, metres
	Velocity      float64 // ground speed, m/s
	OnGround      bool
	LastContact   time.Time
}
