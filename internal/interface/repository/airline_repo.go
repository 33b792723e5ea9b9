package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// Airlines GORM model for database mapping
type Airlines struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name"`
	ICAO      string         `gorm:"column:icao"`
	Country   string         `gorm:"column:country"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "m_airlines"
}

func (a Airlines) toEntity() entity.Airline {
	return entity.Airline{
		Code:    entity.NormalizeCode(a.Code),
		Name:    a.Name,
		ICAO:    entity.NormalizeCode(a.ICAO),
		Country: a.Country,
	}
}

// List returns every airline with a valid code
func (r *GormAirlineRepository) List(ctx context.Context) ([]entity.Airline, error) {
	var rows []Airlines
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list airlines: %w", err)
	}

	airlines := make([]entity.Airline, 0, len(rows))
	for _, row := range rows {
		a := row.toEntity()
		if !entity.ValidAirlineCode(a.Code) {
			continue
		}
		airlines = append(airlines, a)
	}
	return airlines, nil
}

// GetByCode finds an airline by code
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var airline Airlines
	result := r.db.WithContext(ctx).Where("code = ?", entity.NormalizeCode(code)).First(&airline)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("airline %s: %w", code, entity.ErrNotFound)
		}
		return nil, result.Error
	}

	a := airline.toEntity()
	return &a, nil
}
