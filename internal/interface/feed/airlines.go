package feed

import (
	"context"

	"flightlo-service/internal/domain/entity"
)

const airlineFeedLimit = 100

// FlightStats reads the FlightStats airline directory
type FlightStats struct {
	client *Client
	url    string
}

// NewFlightStats creates the FlightStats airline adapter
func NewFlightStats(client *Client, url string) *FlightStats {
	return &FlightStats{client: client, url: url}
}

func (f *FlightStats) Name() string { return f.client.Name() }

type flightStatsResponse struct {
	Airlines []struct {
		IATA    string `json:"iata"`
		ICAO    string `json:"icao"`
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"airlines"`
}

// FetchAirlines returns the first airlines of the directory
func (f *FlightStats) FetchAirlines(ctx context.Context) ([]entity.Airline, error) {
	var raw flightStatsResponse
	if err := f.client.GetJSON(ctx, f.url, nil, &raw); err != nil {
		return nil, err
	}

	records := raw.Airlines
	if len(records) > airlineFeedLimit {
		records = records[:airlineFeedLimit]
	}

	airlines := make([]entity.Airline, 0, len(records))
	skipped := 0
	for _, a := range records {
		airline, ok := newAirline(a.IATA, a.ICAO, a.Name, a.Country)
		if !ok {
			skipped++
			continue
		}
		airlines = append(airlines, airline)
	}
	f.client.Skipped(skipped)

	return airlines, nil
}

// Amadeus reads the Amadeus airline reference data. The client must carry
// OAuth2 client credentials.
type Amadeus struct {
	client *Client
	url    string
}

// NewAmadeus creates the Amadeus airline adapter
func NewAmadeus(client *Client, url string) *Amadeus {
	return &Amadeus{client: client, url: url}
}

func (f *Amadeus) Name() string { return f.client.Name() }

type amadeusResponse struct {
	Data []struct {
		IATACode     string `json:"iataCode"`
		ICAOCode     string `json:"icaoCode"`
		BusinessName string `json:"businessName"`
		CommonName   string `json:"commonName"`
		Country      string `json:"country"`
	} `json:"data"`
}

// FetchAirlines returns the first airlines of the reference data
func (f *Amadeus) FetchAirlines(ctx context.Context) ([]entity.Airline, error) {
	var raw amadeusResponse
	if err := f.client.GetJSON(ctx, f.url, nil, &raw); err != nil {
		return nil, err
	}

	records := raw.Data
	if len(records) > airlineFeedLimit {
		records = records[:airlineFeedLimit]
	}

	airlines := make([]entity.Airline, 0, len(records))
	skipped := 0
	for _, a := range records {
		airline, ok := newAirline(a.IATACode, a.ICAOCode, firstNonEmpty(a.BusinessName, a.CommonName), a.Country)
		if !ok {
			skipped++
			continue
		}
		airlines = append(airlines, airline)
	}
	f.client.Skipped(skipped)

	return airlines, nil
}

func newAirline(iata, icao, name, country string) (entity.Airline, bool) {
	code := entity.NormalizeCode(iata)
	if name == "" || !entity.ValidAirlineCode(code) {
		return entity.Airline{}, false
	}
	airline := entity.Airline{Code: code, Name: name, Country: country}
	if icao = entity.NormalizeCode(icao); len(icao) == 3 {
		airline.ICAO = icao
	}
	return airline, true
}
