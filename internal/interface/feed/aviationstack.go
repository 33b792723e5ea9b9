package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"flightlo-service/internal/domain/entity"
)

// AviationStack queries the AviationStack flights endpoint
type AviationStack struct {
	client    *Client
	baseURL   string
	accessKey string
}

// NewAviationStack creates the AviationStack adapter
func NewAviationStack(client *Client, baseURL, accessKey string) *AviationStack {
	return &AviationStack{client: client, baseURL: strings.TrimRight(baseURL, "/"), accessKey: accessKey}
}

func (f *AviationStack) Name() string { return f.client.Name() }

// ── AviationStack JSON types ──

type asResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Data []asFlight `json:"data"`
}

func (r *asResponse) upstreamErr() error {
	if r.Error == nil {
		return nil
	}
	return fmt.Errorf("upstream error %s: %s", r.Error.Code, r.Error.Message)
}

type asFlight struct {
	FlightDate   string        `json:"flight_date"`
	FlightStatus string        `json:"flight_status"`
	Departure    *asAirport    `json:"departure"`
	Arrival      *asAirport    `json:"arrival"`
	Airline      *asAirline    `json:"airline"`
	Flight       *asFlightInfo `json:"flight"`
	Aircraft     *asAircraft   `json:"aircraft"`
	Live         *asLive       `json:"live"`
}

type asAirport struct {
	Airport   string `json:"airport"`
	IATA      string `json:"iata"`
	ICAO      string `json:"icao"`
	Terminal  string `json:"terminal"`
	Gate      string `json:"gate"`
	Delay     *int   `json:"delay"`
	Scheduled string `json:"scheduled"`
}

type asAirline struct {
	Name string `json:"name"`
	IATA string `json:"iata"`
	ICAO string `json:"icao"`
}

type asFlightInfo struct {
	Number string `json:"number"`
	IATA   string `json:"iata"`
	ICAO   string `json:"icao"`
}

type asAircraft struct {
	Registration string `json:"registration"`
	IATA         string `json:"iata"`
	ICAO         string `json:"icao"`
}

type asLive struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Altitude        float64 `json:"altitude"`
	SpeedHorizontal float64 `json:"speed_horizontal"`
	IsGround        bool    `json:"is_ground"`
}

// FetchFlights returns flights on the requested route
func (f *AviationStack) FetchFlights(ctx context.Context, route entity.RouteQuery) ([]entity.Flight, error) {
	params := url.Values{
		"access_key": {f.accessKey},
		"limit":      {"25"},
	}
	if route.Origin.Code != "" {
		params.Set("dep_iata", route.Origin.Code)
	}
	if route.Destination.Code != "" {
		params.Set("arr_iata", route.Destination.Code)
	}
	if route.AirlineCode != "" {
		params.Set("airline_iata", route.AirlineCode)
	}

	var raw asResponse
	if err := f.client.GetJSON(ctx, f.baseURL+"/flights", params, &raw); err != nil {
		return nil, err
	}

	flights := make([]entity.Flight, 0, len(raw.Data))
	skipped := 0
	for i := range raw.Data {
		flight, ok := raw.Data[i].toFlight(f.Name())
		if !ok {
			skipped++
			continue
		}
		flights = append(flights, flight)
	}
	f.client.Skipped(skipped)

	return flights, nil
}

func (a *asFlight) toFlight(provenance string) (entity.Flight, bool) {
	if a.Flight == nil || a.Departure == nil || a.Arrival == nil {
		return entity.Flight{}, false
	}

	dep := entity.NormalizeCode(a.Departure.IATA)
	arr := entity.NormalizeCode(a.Arrival.IATA)
	if !entity.ValidAirportCode(dep) || !entity.ValidAirportCode(arr) {
		return entity.Flight{}, false
	}

	flight := entity.Flight{
		Provenance: provenance,
		Status:     a.status(),
	}
	if a.Airline != nil {
		flight.AirlineCode = entity.NormalizeCode(a.Airline.IATA)
		flight.AirlineName = a.Airline.Name
	}
	flight.FlightNumber = entity.NormalizeCode(a.Flight.IATA)
	if flight.FlightNumber == "" && a.Flight.Number != "" {
		flight.FlightNumber = flight.AirlineCode + strings.TrimSpace(a.Flight.Number)
	}
	if flight.FlightNumber == "" {
		return entity.Flight{}, false
	}
	flight.ID = fmt.Sprintf("%s-%s-%s-%s", provenance, a.FlightDate, flight.FlightNumber, dep)

	flight.Departure = entity.FlightEndpoint{
		Airport:  entity.AirportRef{Code: dep, Name: a.Departure.Airport},
		Time:     parseASTime(a.Departure.Scheduled),
		Terminal: a.Departure.Terminal,
		Gate:     a.Departure.Gate,
	}
	flight.Arrival = entity.FlightEndpoint{
		Airport:  entity.AirportRef{Code: arr, Name: a.Arrival.Airport},
		Time:     parseASTime(a.Arrival.Scheduled),
		Terminal: a.Arrival.Terminal,
		Gate:     a.Arrival.Gate,
	}
	if !flight.Departure.Time.IsZero() && flight.Arrival.Time.After(flight.Departure.Time) {
		flight.DurationMinutes = int(flight.Arrival.Time.Sub(flight.Departure.Time).Minutes())
	}

	if a.Aircraft != nil {
		flight.AircraftType = firstNonEmpty(a.Aircraft.IATA, a.Aircraft.ICAO)
	}
	if a.Live != nil && !a.Live.IsGround {
		flight.Position = &entity.Position{
			Lat:      a.Live.Latitude,
			Lng:      a.Live.Longitude,
			Altitude: a.Live.Altitude,
			Velocity: a.Live.SpeedHorizontal,
		}
	}

	return flight, true
}

func (a *asFlight) status() entity.FlightStatus {
	switch strings.ToLower(a.FlightStatus) {
	case "active":
		return entity.StatusActive
	case "landed":
		return entity.StatusLanded
	case "cancelled":
		return entity.StatusCancelled
	case "incident", "diverted":
		return entity.StatusDelayed
	}
	if a.Departure != nil && a.Departure.Delay != nil && *a.Departure.Delay > 0 {
		return entity.StatusDelayed
	}
	return entity.StatusScheduled
}

func parseASTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
