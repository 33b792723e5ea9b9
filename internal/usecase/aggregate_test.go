package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightlo-service/internal/domain/entity"
)

func TestMerge_FirstOccurrenceWins(t *testing.T) {
	a := []entity.Airport{
		{Code: "LHR", Name: "Heathrow"},
		{Code: "CDG", Name: "Charles de Gaulle"},
	}
	b := []entity.Airport{
		{Code: "lhr", Name: "London Heathrow Airport", City: "London", Country: "United Kingdom"},
		{Code: "AMS", Name: "Schiphol"},
	}

	merged := Merge([][]entity.Airport{a, b}, AirportKey)
	require.Len(t, merged, 3)
	assert.Equal(t, "Heathrow", merged[0].Name, "earlier batch wins even with less data")
	assert.Equal(t, "CDG", merged[1].Code)
	assert.Equal(t, "AMS", merged[2].Code)

	reversed := Merge([][]entity.Airport{b, a}, AirportKey)
	assert.Equal(t, "London Heathrow Airport", reversed[0].Name)
}

func TestMerge_HeathrowQueryYieldsOneEntry(t *testing.T) {
	openflights := []entity.Airport{{Code: "LHR", Name: "London Heathrow Airport", City: "London"}}
	geonames := []entity.Airport{{Code: "LHR", Name: "HEATHROW", City: "Greater London"}}

	result := FilterAirports(Merge([][]entity.Airport{openflights, geonames}, AirportKey), "heathrow", "")
	require.Len(t, result, 1)
	assert.Equal(t, "LHR", result[0].Code)
	assert.Equal(t, "London Heathrow Airport", result[0].Name)
}

func TestMerge_Flights(t *testing.T) {
	f := func(number, dep, arr string, price float64) entity.Flight {
		return entity.Flight{
			FlightNumber: number,
			Departure:    entity.FlightEndpoint{Airport: entity.AirportRef{Code: dep}},
			Arrival:      entity.FlightEndpoint{Airport: entity.AirportRef{Code: arr}},
			Price:        price,
		}
	}
	merged := Merge([][]entity.Flight{
		{f("BA117", "LHR", "JFK", 0)},
		{f("ba117", "lhr", "jfk", 900), f("BA117", "LHR", "BOS", 800)},
	}, FlightKey)

	require.Len(t, merged, 2)
	assert.Zero(t, merged[0].Price)
	assert.Equal(t, "BOS", merged[1].Arrival.Airport.Code)
}

func TestFilterAirports(t *testing.T) {
	airports := []entity.Airport{
		{Code: "LHR", Name: "London Heathrow Airport", City: "London", Country: "United Kingdom"},
		{Code: "LGW", Name: "London Gatwick Airport", City: "London", Country: "United Kingdom"},
		{Code: "YXU", Name: "London International Airport", City: "London", Country: "Canada"},
		{Code: "JFK", Name: "John F. Kennedy International Airport", City: "New York", Country: "United States"},
	}

	tests := []struct {
		name    string
		query   string
		country string
		want    []string
	}{
		{"no filters", "", "", []string{"LHR", "LGW", "YXU", "JFK"}},
		{"city query", "london", "", []string{"LHR", "LGW", "YXU"}},
		{"code query", "jfk", "", []string{"JFK"}},
		{"query and country", "london", "kingdom", []string{"LHR", "LGW"}},
		{"country only", "", "canada", []string{"YXU"}},
		{"no match", "tokyo", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAirports(airports, tt.query, tt.country)
			codes := make([]string, 0, len(got))
			for _, a := range got {
				codes = append(codes, a.Code)
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestFilterAirlines(t *testing.T) {
	airlines := []entity.Airline{
		{Code: "BA", Name: "British Airways", Country: "United Kingdom"},
		{Code: "VS", Name: "Virgin Atlantic", Country: "United Kingdom"},
		{Code: "AA", Name: "American Airlines", Country: "United States"},
	}

	assert.Len(t, FilterAirlines(airlines, "kingdom", ""), 2)
	assert.Len(t, FilterAirlines(airlines, "airways", "united"), 1)
	assert.Len(t, FilterAirlines(airlines, "aa", ""), 1)
	assert.Empty(t, FilterAirlines(airlines, "", "france"))
}

func TestLimit(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{1, 2}, Limit(items, 2))
	assert.Equal(t, items, Limit(items, 10))
	assert.Equal(t, items, Limit(items, 0))
}

func TestFilterFlights_MatchesCity(t *testing.T) {
	criteria := FlightCriteria{
		Origin:      entity.Airport{Code: "LHR", City: "London"},
		Destination: entity.Airport{Code: "JFK", City: "New York"},
	}
	flights := []entity.Flight{
		{FlightNumber: "BA117",
			Departure: entity.FlightEndpoint{Airport: entity.AirportRef{Code: "LHR"}},
			Arrival:   entity.FlightEndpoint{Airport: entity.AirportRef{Code: "JFK"}}},
		{FlightNumber: "VS3",
			Departure: entity.FlightEndpoint{Airport: entity.AirportRef{Code: "LGW", City: "London"}},
			Arrival:   entity.FlightEndpoint{Airport: entity.AirportRef{Code: "JFK"}}},
		{FlightNumber: "AF22",
			Departure: entity.FlightEndpoint{Airport: entity.AirportRef{Code: "CDG", City: "Paris"}},
			Arrival:   entity.FlightEndpoint{Airport: entity.AirportRef{Code: "JFK"}}},
	}

	got := FilterFlights(flights, criteria)
	require.Len(t, got, 2)
	assert.Equal(t, "BA117", got[0].FlightNumber)
	assert.Equal(t, "VS3", got[1].FlightNumber)
}

func TestRankFlights_StableByScore(t *testing.T) {
	criteria := FlightCriteria{
		Origin:          entity.Airport{Code: "LHR"},
		Destination:     entity.Airport{Code: "JFK"},
		OriginText:      "london",
		DestinationText: "new york",
		AirlineText:     "british",
		AirlineCode:     "BA",
	}
	route := func(number, airline, dep, arr string) entity.Flight {
		return entity.Flight{
			FlightNumber: number,
			AirlineName:  airline,
			Departure:    entity.FlightEndpoint{Airport: entity.AirportRef{Code: dep, City: "London"}},
			Arrival:      entity.FlightEndpoint{Airport: entity.AirportRef{Code: arr, City: "New York"}},
		}
	}
	flights := []entity.Flight{
		route("VS3", "Virgin Atlantic", "LGW", "JFK"),   // 10 + 10 + 5
		route("BA117", "British Airways", "LHR", "JFK"), // 10 + 10 + 10 + 5
		route("DL4", "Delta", "LGW", "EWR"),             // 10 + 10 + 5
		{FlightNumber: "XX1", AirlineName: "Unknown"},   // 0
	}

	ranked := RankFlights(flights, criteria)
	numbers := []string{ranked[0].FlightNumber, ranked[1].FlightNumber, ranked[2].FlightNumber, ranked[3].FlightNumber}
	assert.Equal(t, []string{"BA117", "VS3", "DL4", "XX1"}, numbers)
	assert.Equal(t, 35, RelevanceScore(flights[1], criteria))
	assert.Equal(t, 0, RelevanceScore(flights[3], criteria))
}
