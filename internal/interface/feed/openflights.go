package feed

import (
	"context"
	"strconv"

	"flightlo-service/internal/domain/entity"
)

// OpenFlights data files are large; only the head of each file is read.
const (
	openFlightsAirportLines = 1000
	openFlightsAirlineLines = 500
)

// OpenFlightsAirports reads airports.dat from the OpenFlights repository
type OpenFlightsAirports struct {
	client   *Client
	url      string
	maxLines int
}

// NewOpenFlightsAirports creates the OpenFlights airport adapter
func NewOpenFlightsAirports(client *Client, url string) *OpenFlightsAirports {
	return &OpenFlightsAirports{client: client, url: url, maxLines: openFlightsAirportLines}
}

func (f *OpenFlightsAirports) Name() string { return f.client.Name() }

// FetchAirports downloads and parses the airport CSV
func (f *OpenFlightsAirports) FetchAirports(ctx context.Context) ([]entity.Airport, error) {
	body, err := f.client.Get(ctx, f.url, nil)
	if err != nil {
		return nil, err
	}

	var airports []entity.Airport
	skipped := readCSV(body, f.maxLines, func(fields []string) bool {
		airport, ok := parseOpenFlightsAirport(fields)
		if ok {
			airports = append(airports, airport)
		}
		return ok
	})
	f.client.Skipped(skipped)

	return airports, nil
}

// parseOpenFlightsAirport maps one airports.dat row:
// id, name, city, country, IATA, ICAO, lat, lng, altitude(ft), utc offset, dst, tz, ...
func parseOpenFlightsAirport(fields []string) (entity.Airport, bool) {
	if len(fields) < 8 {
		return entity.Airport{}, false
	}

	code := entity.NormalizeCode(firstNonEmpty(field(fields, 4), field(fields, 5)))
	if !entity.ValidAirportCode(code) {
		return entity.Airport{}, false
	}

	airport := entity.Airport{
		Code:     code,
		Name:     field(fields, 1),
		City:     field(fields, 2),
		Country:  field(fields, 3),
		Timezone: field(fields, 11),
	}
	if icao := entity.NormalizeCode(field(fields, 5)); len(icao) == 4 {
		airport.ICAO = icao
	}

	lat, latErr := strconv.ParseFloat(field(fields, 6), 64)
	lng, lngErr := strconv.ParseFloat(field(fields, 7), 64)
	if latErr == nil && lngErr == nil {
		airport.Coordinates = &entity.Coordinates{Lat: lat, Lng: lng}
	}
	if elevation, err := strconv.Atoi(field(fields, 8)); err == nil {
		airport.Elevation = &elevation
	}

	return airport, true
}

// OpenFlightsAirlines reads airlines.dat from the OpenFlights repository
type OpenFlightsAirlines struct {
	client   *Client
	url      string
	maxLines int
}

// NewOpenFlightsAirlines creates the OpenFlights airline adapter
func NewOpenFlightsAirlines(client *Client, url string) *OpenFlightsAirlines {
	return &OpenFlightsAirlines{client: client, url: url, maxLines: openFlightsAirlineLines}
}

func (f *OpenFlightsAirlines) Name() string { return f.client.Name() }

// FetchAirlines downloads and parses the airline CSV
func (f *OpenFlightsAirlines) FetchAirlines(ctx context.Context) ([]entity.Airline, error) {
	body, err := f.client.Get(ctx, f.url, nil)
	if err != nil {
		return nil, err
	}

	var airlines []entity.Airline
	skipped := readCSV(body, f.maxLines, func(fields []string) bool {
		airline, ok := parseOpenFlightsAirline(fields)
		if ok {
			airlines = append(airlines, airline)
		}
		return ok
	})
	f.client.Skipped(skipped)

	return airlines, nil
}

// parseOpenFlightsAirline maps one airlines.dat row:
// id, name, alias, IATA, ICAO, callsign, country, active
func parseOpenFlightsAirline(fields []string) (entity.Airline, bool) {
	if len(fields) < 7 {
		return entity.Airline{}, false
	}

	code := entity.NormalizeCode(firstNonEmpty(field(fields, 3), field(fields, 4)))
	if !entity.ValidAirlineCode(code) {
		return entity.Airline{}, false
	}

	airline := entity.Airline{
		Code:    code,
		Name:    field(fields, 1),
		Country: field(fields, 6),
	}
	if icao := entity.NormalizeCode(field(fields, 4)); len(icao) == 3 && entity.ValidAirlineCode(icao) {
		airline.ICAO = icao
	}
	return airline, true
}
