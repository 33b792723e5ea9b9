package repository

import (
	"context"

	"flightlo-service/internal/domain/entity"
)

// AirlineRepository defines the interface for airline catalog operations
type AirlineRepository interface {
	List(ctx context.Context) ([]entity.Airline, error)
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
}
