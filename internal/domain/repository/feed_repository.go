package repository

import (
	"context"
	"time"

	"flightlo-service/internal/domain/entity"
)

// AirportFeed fetches airports from one upstream source
type AirportFeed interface {
	Name() string
	FetchAirports(ctx context.Context) ([]entity.Airport, error)
}

// AirlineFeed fetches airlines from one upstream source
type AirlineFeed interface {
	Name() string
	FetchAirlines(ctx context.Context) ([]entity.Airline, error)
}

// FlightFeed fetches flights for a resolved route. Feeds that cannot filter
// server-side may return unrelated flights; the caller filters.
type FlightFeed interface {
	Name() string
	FetchFlights(ctx context.Context, route entity.RouteQuery) ([]entity.Flight, error)
}

// StateFeed fetches live aircraft state vectors
type StateFeed interface {
	Name() string
	FetchStates(ctx context.Context) ([]entity.AircraftState, error)
}

// FeedCache stores raw feed responses. Implementations are advisory: callers
// treat errors as misses.
type FeedCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}
