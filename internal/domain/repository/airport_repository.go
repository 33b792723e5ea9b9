package repository

import (
	"context"

	"flightlo-service/internal/domain/entity"
)

// AirportRepository defines the interface for airport catalog operations
type AirportRepository interface {
	List(ctx context.Context) ([]entity.Airport, error)
	GetByCode(ctx context.Context, code string) (*entity.Airport, error)
}
