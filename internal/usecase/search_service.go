package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/internal/domain/repository"
	"flightlo-service/pkg/logger"
	"flightlo-service/pkg/metrics"
)

const defaultListLimit = 100

// SearchConfig tunes the search pipeline
type SearchConfig struct {
	FeedTimeout        time.Duration
	DefaultFlightLimit int
}

// Feeds groups the upstream adapters in their merge order. Earlier feeds win
// when two feeds return the same record.
type Feeds struct {
	Airports []repository.AirportFeed
	Airlines []repository.AirlineFeed
	Flights  []repository.FlightFeed
}

// SearchService runs the fetch, merge, filter and generate pipeline behind
// every read endpoint.
type SearchService struct {
	feeds     Feeds
	catalog   *Catalog
	generator *FlightGenerator
	cfg       SearchConfig
	logger    logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewSearchService creates a new search service
func NewSearchService(
	feeds Feeds,
	catalog *Catalog,
	generator *FlightGenerator,
	cfg SearchConfig,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *SearchService {
	if cfg.DefaultFlightLimit <= 0 {
		cfg.DefaultFlightLimit = 15
	}
	return &SearchService{
		feeds:     feeds,
		catalog:   catalog,
		generator: generator,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// ListAirports merges live airport feeds with the catalog, filters and truncates.
func (s *SearchService) ListAirports(ctx context.Context, q entity.ListQuery) (*entity.AirportList, error) {
	q = normalizeListQuery(q)
	if err := validateRequest(q); err != nil {
		return nil, err
	}

	batches := fanOut(ctx, s.feeds.Airports, s.cfg.FeedTimeout, s.logger, s.metrics,
		func(ctx context.Context, f repository.AirportFeed) ([]entity.Airport, error) {
			return f.FetchAirports(ctx)
		})
	live := false
	for i := range batches {
		batches[i] = validAirports(batches[i])
		live = live || len(batches[i]) > 0
	}
	batches = append(batches, s.catalog.Airports())

	airports := Limit(FilterAirports(Merge(batches, AirportKey), q.Query, q.Country), listLimit(q.Limit))
	source := listSource(live, len(airports))

	s.metrics.CountSearch("airports", source)
	s.logger.Info("Airports listed", "query", q.Query, "country", q.Country, "count", len(airports), "source", source)

	return &entity.AirportList{
		Airports:  airports,
		Source:    source,
		Timestamp: s.now().UTC(),
		Count:     len(airports),
	}, nil
}

// ListAirlines merges live airline feeds with the catalog, filters and truncates.
func (s *SearchService) ListAirlines(ctx context.Context, q entity.ListQuery) (*entity.AirlineList, error) {
	q = normalizeListQuery(q)
	if err := validateRequest(q); err != nil {
		return nil, err
	}

	batches := fanOut(ctx, s.feeds.Airlines, s.cfg.FeedTimeout, s.logger, s.metrics,
		func(ctx context.Context, f repository.AirlineFeed) ([]entity.Airline, error) {
			return f.FetchAirlines(ctx)
		})
	live := false
	for i := range batches {
		batches[i] = validAirlines(batches[i])
		live = live || len(batches[i]) > 0
	}
	batches = append(batches, s.catalog.Airlines())

	airlines := Limit(FilterAirlines(Merge(batches, AirlineKey), q.Query, q.Country), listLimit(q.Limit))
	source := listSource(live, len(airlines))

	s.metrics.CountSearch("airlines", source)
	s.logger.Info("Airlines listed", "query", q.Query, "country", q.Country, "count", len(airlines), "source", source)

	return &entity.AirlineList{
		Airlines:  airlines,
		Source:    source,
		Timestamp: s.now().UTC(),
		Count:     len(airlines),
	}, nil
}

// SearchFlights resolves the route against the catalog, asks every flight feed
// and falls back to generated flights when no live flight matches.
// Unknown airports fail with ErrNotFound before any feed is called.
func (s *SearchService) SearchFlights(ctx context.Context, req entity.FlightSearchRequest) (*entity.FlightList, error) {
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	req.Airline = strings.TrimSpace(req.Airline)
	req.Country = strings.TrimSpace(req.Country)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	origin, ok := s.catalog.ResolveAirport(req.Origin)
	if !ok {
		return nil, fmt.Errorf("origin %q: %w", req.Origin, entity.ErrNotFound)
	}
	destination, ok := s.catalog.ResolveAirport(req.Destination)
	if !ok {
		return nil, fmt.Errorf("destination %q: %w", req.Destination, entity.ErrNotFound)
	}
	if origin.Code == destination.Code {
		return nil, &entity.ValidationError{Problems: []string{"origin and destination must differ"}}
	}

	criteria := FlightCriteria{
		Origin:          origin,
		Destination:     destination,
		OriginText:      req.Origin,
		DestinationText: req.Destination,
		AirlineText:     req.Airline,
		Country:         req.Country,
	}
	var airline *entity.Airline
	if req.Airline != "" {
		if a, found := s.catalog.ResolveAirline(req.Airline); found {
			airline = &a
			criteria.AirlineCode = a.Code
		}
	}

	route := entity.RouteQuery{Origin: origin, Destination: destination, AirlineCode: criteria.AirlineCode}
	batches := fanOut(ctx, s.feeds.Flights, s.cfg.FeedTimeout, s.logger, s.metrics,
		func(ctx context.Context, f repository.FlightFeed) ([]entity.Flight, error) {
			return f.FetchFlights(ctx, route)
		})

	flights := FilterFlights(Merge(batches, FlightKey), criteria)
	source := entity.SourceLive
	if len(flights) > 0 {
		for i := range flights {
			s.generator.Enrich(&flights[i])
		}
	} else {
		generated := s.generator.Generate(origin, destination, req.Date, airline)
		s.metrics.AddGenerated(len(generated))
		flights = FilterFlights(generated, FlightCriteria{
			Origin:      origin,
			Destination: destination,
			Country:     req.Country,
		})
		source = entity.SourceGenerated
		s.logger.Info("No live flights, using generated schedule",
			"origin", origin.Code, "destination", destination.Code, "generated", len(generated))
	}
	if len(flights) == 0 {
		source = entity.SourceNone
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultFlightLimit
	}
	flights = Limit(RankFlights(flights, criteria), limit)

	s.metrics.CountSearch("flights", source)
	s.logger.Info("Flights searched",
		"origin", origin.Code, "destination", destination.Code, "airline", req.Airline,
		"count", len(flights), "source", source)

	return &entity.FlightList{
		Flights:   flights,
		Source:    source,
		Timestamp: s.now().UTC(),
		Count:     len(flights),
	}, nil
}

// AirportInfo returns a catalog airport with statistics and a departures board
func (s *SearchService) AirportInfo(ctx context.Context, code string) (*entity.AirportInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code = entity.NormalizeCode(code)
	if !entity.ValidAirportCode(code) {
		return nil, &entity.ValidationError{Problems: []string{"code must be a 3-letter IATA airport code"}}
	}
	airport, ok := s.catalog.Airport(code)
	if !ok {
		return nil, fmt.Errorf("airport %s: %w", code, entity.ErrNotFound)
	}

	departures := s.generator.DeparturesBoard(airport)
	s.metrics.AddGenerated(len(departures))
	s.metrics.CountSearch("airport", entity.SourceCatalog)

	return &entity.AirportInfo{
		Airport:    airport,
		Statistics: s.generator.AirportStatistics(airport),
		Departures: departures,
		Timestamp:  s.now().UTC(),
	}, nil
}

// AirlineSchedule returns generated flights for one airline across the schedule routes
func (s *SearchService) AirlineSchedule(ctx context.Context, code string, date time.Time) (*entity.FlightList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code = entity.NormalizeCode(code)
	if !entity.ValidAirlineCode(code) {
		return nil, &entity.ValidationError{Problems: []string{"code must be a 2 or 3 character airline code"}}
	}
	airline, ok := s.catalog.Airline(code)
	if !ok {
		if airline, ok = s.catalog.AirlineByICAO(code); !ok {
			return nil, fmt.Errorf("airline %s: %w", code, entity.ErrNotFound)
		}
	}

	flights := s.generator.AirlineSchedule(airline, date)
	s.metrics.AddGenerated(len(flights))
	source := entity.SourceGenerated
	if len(flights) == 0 {
		source = entity.SourceNone
	}
	s.metrics.CountSearch("schedule", source)

	return &entity.FlightList{
		Flights:   flights,
		Source:    source,
		Timestamp: s.now().UTC(),
		Count:     len(flights),
	}, nil
}

func normalizeListQuery(q entity.ListQuery) entity.ListQuery {
	q.Query = strings.TrimSpace(q.Query)
	q.Country = strings.TrimSpace(q.Country)
	return q
}

func listLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}

func listSource(live bool, count int) string {
	switch {
	case count == 0:
		return entity.SourceNone
	case live:
		return entity.SourceLive
	default:
		return entity.SourceCatalog
	}
}
