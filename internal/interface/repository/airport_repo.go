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

// GormAirportRepository implements the AirportRepository interface over the
// airport timezone list table
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Timezonelist GORM model for database mapping
type Timezonelist struct {
	ID          uint           `gorm:"primaryKey"`
	AirportCode string         `gorm:"column:airportcode;unique"`
	AirportName string         `gorm:"column:airport_name"`
	ICAO        string         `gorm:"column:icao"`
	CityCode    string         `gorm:"column:citycode"`
	CityName    string         `gorm:"column:cityname"`
	Country     string         `gorm:"column:country"`
	Latitude    *float64       `gorm:"column:latitude"`
	Longitude   *float64       `gorm:"column:longitude"`
	Elevation   *int           `gorm:"column:elevation"`
	GmtTz       string         `gorm:"column:gmttz"`
	TzName      string         `gorm:"column:tzname"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Timezonelist) TableName() string {
	return "m_timezone_list"
}

func (t Timezonelist) toEntity() entity.Airport {
	a := entity.Airport{
		Code:      entity.NormalizeCode(t.AirportCode),
		Name:      t.AirportName,
		City:      t.CityName,
		Country:   t.Country,
		ICAO:      entity.NormalizeCode(t.ICAO),
		Timezone:  t.TzName,
		Elevation: t.Elevation,
	}
	if t.Latitude != nil && t.Longitude != nil {
		a.Coordinates = &entity.Coordinates{Lat: *t.Latitude, Lng: *t.Longitude}
	}
	return a
}

// List returns every airport with a valid IATA code
func (r *GormAirportRepository) List(ctx context.Context) ([]entity.Airport, error) {
	var rows []Timezonelist
	if err := r.db.WithContext(ctx).Order("airportcode").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list airports: %w", err)
	}

	airports := make([]entity.Airport, 0, len(rows))
	for _, row := range rows {
		a := row.toEntity()
		if !entity.ValidAirportCode(a.Code) {
			continue
		}
		airports = append(airports, a)
	}
	return airports, nil
}

// GetByCode finds an airport by IATA code
func (r *GormAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	var row Timezonelist
	result := r.db.WithContext(ctx).Where("airportcode = ?", entity.NormalizeCode(code)).First(&row)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("airport %s: %w", code, entity.ErrNotFound)
		}
		return nil, result.Error
	}

	a := row.toEntity()
	return &a, nil
}
