package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/internal/domain/repository"
	"flightlo-service/pkg/logger"
	"flightlo-service/pkg/metrics"
	"flightlo-service/pkg/utils"
)

// ErrEmptyCatalog is returned by Reload when no repository produced any record.
var ErrEmptyCatalog = errors.New("catalog: no airports or airlines loaded")

// Catalog is the read-only reference data shared by searches. Reload swaps in
// a new snapshot; readers never see a partially built one.
type Catalog struct {
	airportRepos []repository.AirportRepository
	airlineRepos []repository.AirlineRepository
	logger       logger.Logger
	metrics      *metrics.Metrics

	mu   sync.RWMutex
	snap *catalogSnapshot
}

type catalogSnapshot struct {
	airports      []entity.Airport
	airlines      []entity.Airline
	airportByCode map[string]int
	airlineByCode map[string]int
	airlineByICAO map[string]int
	loadedAt      time.Time
}

// NewCatalog creates an empty catalog. Repositories are read in order and the
// first record for a code wins.
func NewCatalog(
	airportRepos []repository.AirportRepository,
	airlineRepos []repository.AirlineRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *Catalog {
	return &Catalog{
		airportRepos: airportRepos,
		airlineRepos: airlineRepos,
		logger:       logger,
		metrics:      metrics,
		snap:         buildSnapshot(nil, nil),
	}
}

// Reload rebuilds the snapshot from the repositories. A failing repository is
// logged and skipped; the previous snapshot is kept if nothing loads.
func (c *Catalog) Reload(ctx context.Context) error {
	airportBatches := make([][]entity.Airport, 0, len(c.airportRepos))
	for i, repo := range c.airportRepos {
		airports, err := repo.List(ctx)
		if err != nil {
			c.logger.Warn("Airport repository unavailable", "index", i, "error", err)
			continue
		}
		airportBatches = append(airportBatches, validAirports(airports))
	}

	airlineBatches := make([][]entity.Airline, 0, len(c.airlineRepos))
	for i, repo := range c.airlineRepos {
		airlines, err := repo.List(ctx)
		if err != nil {
			c.logger.Warn("Airline repository unavailable", "index", i, "error", err)
			continue
		}
		airlineBatches = append(airlineBatches, validAirlines(airlines))
	}

	airports := Merge(airportBatches, AirportKey)
	airlines := Merge(airlineBatches, AirlineKey)
	if len(airports) == 0 && len(airlines) == 0 {
		return ErrEmptyCatalog
	}

	snap := buildSnapshot(airports, airlines)

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	c.metrics.SetCatalogSize(len(airports), len(airlines))
	c.logger.Info("Catalog loaded", "airports", len(airports), "airlines", len(airlines))
	return nil
}

// StartRefresh reloads the catalog every interval until ctx is done.
func (c *Catalog) StartRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Catalog refresh stopped")
			return
		case <-ticker.C:
			if err := c.Reload(ctx); err != nil {
				c.logger.Error("Catalog refresh failed", "error", err)
			}
		}
	}
}

func buildSnapshot(airports []entity.Airport, airlines []entity.Airline) *catalogSnapshot {
	snap := &catalogSnapshot{
		airports:      airports,
		airlines:      airlines,
		airportByCode: make(map[string]int, len(airports)),
		airlineByCode: make(map[string]int, len(airlines)),
		airlineByICAO: make(map[string]int, len(airlines)),
		loadedAt:      time.Now(),
	}
	for i, a := range airports {
		snap.airportByCode[a.Code] = i
	}
	for i, a := range airlines {
		snap.airlineByCode[a.Code] = i
		if a.ICAO != "" {
			if _, exists := snap.airlineByICAO[a.ICAO]; !exists {
				snap.airlineByICAO[a.ICAO] = i
			}
		}
	}
	return snap
}

func (c *Catalog) current() *catalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// LoadedAt returns when the current snapshot was built
func (c *Catalog) LoadedAt() time.Time {
	return c.current().loadedAt
}

// Airports returns a copy of all airports in catalog order
func (c *Catalog) Airports() []entity.Airport {
	snap := c.current()
	out := make([]entity.Airport, len(snap.airports))
	copy(out, snap.airports)
	return out
}

// Airlines returns a copy of all airlines in catalog order
func (c *Catalog) Airlines() []entity.Airline {
	snap := c.current()
	out := make([]entity.Airline, len(snap.airlines))
	copy(out, snap.airlines)
	return out
}

// Airport looks up an airport by IATA code
func (c *Catalog) Airport(code string) (entity.Airport, bool) {
	snap := c.current()
	i, ok := snap.airportByCode[entity.NormalizeCode(code)]
	if !ok {
		return entity.Airport{}, false
	}
	return snap.airports[i], true
}

// Airline looks up an airline by IATA code
func (c *Catalog) Airline(code string) (entity.Airline, bool) {
	snap := c.current()
	i, ok := snap.airlineByCode[entity.NormalizeCode(code)]
	if !ok {
		return entity.Airline{}, false
	}
	return snap.airlines[i], true
}

// AirlineByICAO looks up an airline by its three letter ICAO code
func (c *Catalog) AirlineByICAO(icao string) (entity.Airline, bool) {
	snap := c.current()
	i, ok := snap.airlineByICAO[entity.NormalizeCode(icao)]
	if !ok {
		return entity.Airline{}, false
	}
	return snap.airlines[i], true
}

// ResolveAirport maps user input to an airport. Input may be a code
// ("JFK", "jfk - New York"), a city or part of an airport name. Cities are
// matched exactly before names are matched by substring.
func (c *Catalog) ResolveAirport(input string) (entity.Airport, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return entity.Airport{}, false
	}
	if code := utils.ExtractAirportCode(input); code != "" {
		if a, ok := c.Airport(code); ok {
			return a, true
		}
	}

	snap := c.current()
	for _, a := range snap.airports {
		if strings.EqualFold(a.City, input) {
			return a, true
		}
	}
	for _, a := range snap.airports {
		if utils.ContainsFold(a.Name, input) {
			return a, true
		}
	}
	return entity.Airport{}, false
}

// ResolveAirline maps user input to an airline by IATA code, ICAO code or
// name substring.
func (c *Catalog) ResolveAirline(input string) (entity.Airline, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return entity.Airline{}, false
	}
	if a, ok := c.Airline(input); ok {
		return a, true
	}
	if a, ok := c.AirlineByICAO(input); ok {
		return a, true
	}
	for _, a := range c.current().airlines {
		if utils.ContainsFold(a.Name, input) {
			return a, true
		}
	}
	return entity.Airline{}, false
}

// NearestAirports returns up to n airports with coordinates, closest first
func (c *Catalog) NearestAirports(lat, lng float64, n int) []entity.Airport {
	type ranked struct {
		airport  entity.Airport
		distance float64
	}

	snap := c.current()
	candidates := make([]ranked, 0, len(snap.airports))
	for _, a := range snap.airports {
		if a.Coordinates == nil {
			continue
		}
		candidates = append(candidates, ranked{
			airport:  a,
			distance: utils.HaversineDistance(lat, lng, a.Coordinates.Lat, a.Coordinates.Lng),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]entity.Airport, 0, n)
	for _, r := range candidates[:n] {
		out = append(out, r.airport)
	}
	return out
}

func validAirports(airports []entity.Airport) []entity.Airport {
	out := make([]entity.Airport, 0, len(airports))
	for _, a := range airports {
		a.Code = entity.NormalizeCode(a.Code)
		if entity.ValidAirportCode(a.Code) {
			out = append(out, a)
		}
	}
	return out
}

func validAirlines(airlines []entity.Airline) []entity.Airline {
	out := make([]entity.Airline, 0, len(airlines))
	for _, a := range airlines {
		a.Code = entity.NormalizeCode(a.Code)
		if entity.ValidAirlineCode(a.Code) {
			out = append(out, a)
		}
	}
	return out
}
