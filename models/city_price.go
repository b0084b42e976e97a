// Package models contains domain entities and business models for the shipping pricing system
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auction categories a shipping price is quoted per.
const (
	CategoryCopart  = "copart"
	CategoryIAAI    = "iaai"
	CategoryManheim = "manheim"
)

// Categories lists all supported auction categories in a stable order.
func Categories() []string {
	return []string{CategoryCopart, CategoryIAAI, CategoryManheim}
}

// ValidCategory reports whether category is one of the supported auction houses.
func ValidCategory(category string) bool {
	switch category {
	case CategoryCopart, CategoryIAAI, CategoryManheim:
		return true
	}
	return false
}

// CityPrice represents the base shipping price for a (city, category) pair.
// DefaultPrice is the untouched baseline; BasePrice is the currently effective base
// derived from DefaultPrice plus the most recent category-wide re-basing delta, so
// base_price == default_price + coalesce(last_adjustment_amount, 0) holds at all times.
// Uniqueness on (category, LOWER(city)) is enforced by an expression index created at
// migration time; gorm struct tags cannot express it.
// Table: city_prices
type CityPrice struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	City     string    `gorm:"size:255;not null;index:idx_city_prices_city" json:"city"`
	Category string    `gorm:"size:32;not null;index:idx_city_prices_category" json:"category"`

	DefaultPrice float64 `gorm:"type:numeric(12,2);not null" json:"default_price"`
	BasePrice    float64 `gorm:"type:numeric(12,2);not null" json:"base_price"`

	LastAdjustmentAmount *float64   `gorm:"type:numeric(12,2)" json:"last_adjustment_amount"`
	LastAdjustmentDate   *time.Time `json:"last_adjustment_date"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CityPrice) TableName() string {
	return "city_prices"
}

// BeforeCreate ensures UUID is set
func (p *CityPrice) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// CityPriceFilter represents filter criteria for city price queries.
// City is a case-insensitive exact match, Category an exact match, and Search a
// case-insensitive city substring match.
type CityPriceFilter struct {
	City     *string `json:"city,omitempty"`
	Category *string `json:"category,omitempty"`
	Search   *string `json:"search,omitempty"`
}
