package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/internal/domain/repository"
)

//go:embed seed/catalog.json
var seedCatalogJSON []byte

type seedCatalog struct {
	Airports []entity.Airport `json:"airports"`
	Airlines []entity.Airline `json:"airlines"`
}

var (
	seedOnce sync.Once
	seed     seedCatalog
	seedErr  error
)

func loadSeed() (seedCatalog, error) {
	seedOnce.Do(func() {
		seedErr = json.Unmarshal(seedCatalogJSON, &seed)
	})
	return seed, seedErr
}

// StaticAirportRepository serves the airports bundled with the binary
type StaticAirportRepository struct {
	airports []entity.Airport
}

// NewStaticAirportRepository creates an airport repository over the embedded seed data,
// or over airports when given
func NewStaticAirportRepository(airports ...entity.Airport) (repository.AirportRepository, error) {
	if len(airports) > 0 {
		return &StaticAirportRepository{airports: airports}, nil
	}
	s, err := loadSeed()
	if err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	return &StaticAirportRepository{airports: s.Airports}, nil
}

// List returns a copy of all airports
func (r *StaticAirportRepository) List(ctx context.Context) ([]entity.Airport, error) {
	out := make([]entity.Airport, len(r.airports))
	copy(out, r.airports)
	return out, nil
}

// GetByCode finds an airport by IATA code
func (r *StaticAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	code = entity.NormalizeCode(code)
	for i := range r.airports {
		if r.airports[i].Code == code {
			a := r.airports[i]
			return &a, nil
		}
	}
	return nil, fmt.Errorf("airport %s: %w", code, entity.ErrNotFound)
}

// StaticAirlineRepository serves the airlines bundled with the binary
type StaticAirlineRepository struct {
	airlines []entity.Airline
}

// NewStaticAirlineRepository creates an airline repository over the embedded seed data,
// or over airlines when given
func NewStaticAirlineRepository(airlines ...entity.Airline) (repository.AirlineRepository, error) {
	if len(airlines) > 0 {
		return &StaticAirlineRepository{airlines: airlines}, nil
	}
	s, err := loadSeed()
	if err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	return &StaticAirlineRepository{airlines: s.Airlines}, nil
}

// List returns a copy of all airlines
func (r *StaticAirlineRepository) List(ctx context.Context) ([]entity.Airline, error) {
	out := make([]entity.Airline, len(r.airlines))
	copy(out, r.airlines)
	return out, nil
}

// GetByCode finds an airline by IATA code
func (r *StaticAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	code = entity.NormalizeCode(code)
	for i := range r.airlines {
		if r.airlines[i].Code == code {
			a := r.airlines[i]
			return &a, nil
		}
	}
	return nil, fmt.Errorf("airline %s: %w", code, entity.ErrNotFound)
}
