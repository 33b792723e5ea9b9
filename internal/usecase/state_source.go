package usecase

import (
	"context"
	"strings"
	"time"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/internal/domain/repository"
)

const nearbyAirports = 10

// callsignAirlines maps ICAO callsign prefixes to carriers missing from the catalog
var callsignAirlines = map[string]entity.Airline{
	"AAL": {Code: "AA", ICAO: "AAL", Name: "American Airlines"},
	"DAL": {Code: "DL", ICAO: "DAL", Name: "Delta Air Lines"},
	"UAL": {Code: "UA", ICAO: "UAL", Name: "United Airlines"},
	"BAW": {Code: "BA", ICAO: "BAW", Name: "British Airways"},
	"AFR": {Code: "AF", ICAO: "AFR", Name: "Air France"},
	"DLH": {Code: "LH", ICAO: "DLH", Name: "Lufthansa"},
	"SIA": {Code: "SQ", ICAO: "SIA", Name: "Singapore Airlines"},
	"QFA": {Code: "QF", ICAO: "QFA", Name: "Qantas"},
	"EZY": {Code: "U2", ICAO: "EZY", Name: "easyJet"},
	"RYR": {Code: "FR", ICAO: "RYR", Name: "Ryanair"},
	"THY": {Code: "TK", ICAO: "THY", Name: "Turkish Airlines"},
	"VIR": {Code: "VS", ICAO: "VIR", Name: "Virgin Atlantic"},
}

// StateFlightSource turns live aircraft state vectors into flights. State
// vectors carry no route, so the origin is the airport nearest the aircraft
// and the destination is guessed among the airports around it.
type StateFlightSource struct {
	states    repository.StateFeed
	catalog   *Catalog
	generator *FlightGenerator
}

// NewStateFlightSource creates a flight feed backed by a state feed
func NewStateFlightSource(states repository.StateFeed, catalog *Catalog, generator *FlightGenerator) *StateFlightSource {
	return &StateFlightSource{
		states:    states,
		catalog:   catalog,
		generator: generator,
	}
}

// Name reports the underlying state feed's name
func (s *StateFlightSource) Name() string {
	return s.states.Name()
}

// FetchFlights converts every usable state vector. The route is ignored;
// the search filters the result.
func (s *StateFlightSource) FetchFlights(ctx context.Context, _ entity.RouteQuery) ([]entity.Flight, error) {
	states, err := s.states.FetchStates(ctx)
	if err != nil {
		return nil, err
	}

	flights := make([]entity.Flight, 0, len(states))
	for _, state := range states {
		if f, ok := s.toFlight(state); ok {
			flights = append(flights, f)
		}
	}
	return flights, nil
}

func (s *StateFlightSource) toFlight(state entity.AircraftState) (entity.Flight, bool) {
	callsign := strings.ToUpper(strings.TrimSpace(state.Callsign))
	if callsign == "" {
		return entity.Flight{}, false
	}
	// short or punctuated callsigns such as "X" or "A-1B" yield no usable code
	airline := s.airlineFor(callsign)
	if !entity.ValidAirlineCode(airline.Code) {
		return entity.Flight{}, false
	}
	nearby := s.catalog.NearestAirports(state.Lat, state.Lng, nearbyAirports)
	if len(nearby) < 2 {
		return entity.Flight{}, false
	}

	origin := nearby[0]
	destination := nearby[1+s.generator.intN(len(nearby)-1)]

	km := Distance(origin, destination)
	duration := DurationMinutes(km)
	departure := s.generator.now().Add(-time.Duration(s.generator.intN(120)) * time.Minute).Truncate(time.Minute)
	arrival := departure.Add(time.Duration(duration) * time.Minute)

	return entity.Flight{
		ID:           "OS_" + callsign,
		AirlineCode:  airline.Code,
		AirlineName:  airline.Name,
		FlightNumber: callsign,
		Departure: entity.FlightEndpoint{
			Airport: origin.Ref(),
			Time:    departure,
		},
		Arrival: entity.FlightEndpoint{
			Airport: destination.Ref(),
			Time:    arrival,
		},
		DurationMinutes: duration,
		Status:          LiveStatus(state.Altitude, state.Velocity),
		Provenance:      s.states.Name(),
		Simulated:       false,
		Position: &entity.Position{
			Lat:      state.Lat,
			Lng:      state.Lng,
			Altitude: state.Altitude,
			Velocity: state.Velocity,
		},
	}, true
}

// airlineFor resolves a callsign prefix through the catalog, then the fixed
// callsign table, and finally names the operator after the prefix.
func (s *StateFlightSource) airlineFor(callsign string) entity.Airline {
	prefix := callsign
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if a, ok := s.catalog.AirlineByICAO(prefix); ok {
		return a
	}
	if a, ok := callsignAirlines[prefix]; ok {
		return a
	}
	return entity.Airline{Code: prefix, ICAO: prefix, Name: prefix + " Airlines"}
}

// LiveStatus derives a display status from altitude (m) and velocity (m/s)
func LiveStatus(altitude, velocity float64) entity.FlightStatus {
	switch {
	case altitude > 10000 && velocity > 200:
		return entity.StatusOnTime
	case altitude < 1000 && velocity < 50:
		return entity.StatusBoarding
	case altitude < 500:
		return entity.StatusDelayed
	default:
		return entity.StatusOnTime
	}
}
