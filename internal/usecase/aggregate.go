package usecase

import (
	"sort"
	"strings"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/pkg/utils"
)

// Merge concatenates batches in order and keeps the first record for each
// key. Later duplicates are dropped even when they carry more data.
func Merge[T any](batches [][]T, key func(T) string) []T {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	seen := make(map[string]struct{}, total)
	out := make([]T, 0, total)
	for _, batch := range batches {
		for _, item := range batch {
			k := key(item)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

// Limit truncates items to n entries. n <= 0 means no limit.
func Limit[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// AirportKey is the dedupe key of an airport
func AirportKey(a entity.Airport) string {
	return entity.NormalizeCode(a.Code)
}

// AirlineKey is the dedupe key of an airline
func AirlineKey(a entity.Airline) string {
	return entity.NormalizeCode(a.Code)
}

// FlightKey is the dedupe key of a flight: number plus both airports
func FlightKey(f entity.Flight) string {
	return strings.ToUpper(f.FlightNumber) + "|" +
		entity.NormalizeCode(f.Departure.Airport.Code) + "|" +
		entity.NormalizeCode(f.Arrival.Airport.Code)
}

// FilterAirports keeps airports whose name, city or code contains query and
// whose country contains country. Empty arguments match everything.
func FilterAirports(airports []entity.Airport, query, country string) []entity.Airport {
	if query == "" && country == "" {
		return airports
	}
	out := make([]entity.Airport, 0, len(airports))
	for _, a := range airports {
		matchesQuery := query == "" ||
			utils.ContainsFold(a.Name, query) ||
			utils.ContainsFold(a.City, query) ||
			utils.ContainsFold(a.Code, query)
		if matchesQuery && utils.ContainsFold(a.Country, country) {
			out = append(out, a)
		}
	}
	return out
}

// FilterAirlines keeps airlines whose name, code or country contains query and
// whose country contains country.
func FilterAirlines(airlines []entity.Airline, query, country string) []entity.Airline {
	if query == "" && country == "" {
		return airlines
	}
	out := make([]entity.Airline, 0, len(airlines))
	for _, a := range airlines {
		matchesQuery := query == "" ||
			utils.ContainsFold(a.Name, query) ||
			utils.ContainsFold(a.Code, query) ||
			(a.Country != "" && utils.ContainsFold(a.Country, query))
		if matchesQuery && utils.ContainsFold(a.Country, country) {
			out = append(out, a)
		}
	}
	return out
}

// FlightCriteria describes what a route search asked for
type FlightCriteria struct {
	Origin      entity.Airport
	Destination entity.Airport
	// Raw search text, used for relevance scoring
	OriginText      string
	DestinationText string
	AirlineText     string
	// Resolved airline code, empty when the airline text matched no catalog airline
	AirlineCode string
	Country     string
}

// FilterFlights keeps flights serving the requested cities, airline and country.
// Airports match by code or by city so a search for LHR also shows LGW flights.
func FilterFlights(flights []entity.Flight, c FlightCriteria) []entity.Flight {
	out := make([]entity.Flight, 0, len(flights))
	for _, f := range flights {
		if !sameCity(f.Departure.Airport, c.Origin) || !sameCity(f.Arrival.Airport, c.Destination) {
			continue
		}
		if !matchesAirline(f, c) {
			continue
		}
		if c.Country != "" &&
			!utils.ContainsFold(f.Departure.Airport.Country, c.Country) &&
			!utils.ContainsFold(f.Arrival.Airport.Country, c.Country) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func sameCity(ref entity.AirportRef, want entity.Airport) bool {
	if want.Code == "" {
		return true
	}
	if entity.NormalizeCode(ref.Code) == want.Code {
		return true
	}
	return ref.City != "" && want.City != "" && strings.EqualFold(ref.City, want.City)
}

func matchesAirline(f entity.Flight, c FlightCriteria) bool {
	if c.AirlineText == "" {
		return true
	}
	if c.AirlineCode != "" && strings.EqualFold(f.AirlineCode, c.AirlineCode) {
		return true
	}
	return utils.ContainsFold(f.AirlineName, c.AirlineText)
}

// RelevanceScore rates a flight against the search: +10 for each matching
// origin, destination and airline, +5 when both endpoints are known.
func RelevanceScore(f entity.Flight, c FlightCriteria) int {
	score := 0
	if endpointMatches(f.Departure.Airport, c.Origin.Code, c.OriginText) {
		score += 10
	}
	if endpointMatches(f.Arrival.Airport, c.Destination.Code, c.DestinationText) {
		score += 10
	}
	if c.AirlineText != "" &&
		(utils.ContainsFold(f.AirlineName, c.AirlineText) ||
			(c.AirlineCode != "" && strings.EqualFold(f.AirlineCode, c.AirlineCode))) {
		score += 10
	}
	if f.HasRoute() {
		score += 5
	}
	return score
}

func endpointMatches(ref entity.AirportRef, code, text string) bool {
	if code != "" && entity.NormalizeCode(ref.Code) == code {
		return true
	}
	if text == "" {
		return false
	}
	return (ref.City != "" && utils.ContainsFold(ref.City, text)) ||
		(ref.Name != "" && utils.ContainsFold(ref.Name, text))
}

// RankFlights sorts flights by descending relevance; ties keep their order.
func RankFlights(flights []entity.Flight, c FlightCriteria) []entity.Flight {
	scores := make([]int, len(flights))
	idx := make([]int, len(flights))
	for i := range flights {
		scores[i] = RelevanceScore(flights[i], c)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	out := make([]entity.Flight, len(flights))
	for i, j := range idx {
		out[i] = flights[j]
	}
	return out
}
