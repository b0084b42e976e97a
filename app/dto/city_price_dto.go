// Package dto contains request and response shapes exchanged with collaborators
package dto

// CreateCityPriceRequest represents the payload to create a base city price.
// The supplied base_price becomes both the effective base and the untouched baseline.
type CreateCityPriceRequest struct {
	City      string  `json:"city" validate:"required"`
	Category  string  `json:"category" validate:"required,oneof=copart iaai manheim"`
	BasePrice float64 `json:"base_price" validate:"gte=0"`
}

// CityPriceDTO mirrors a stored city price row
type CityPriceDTO struct {
	UUID                 string   `json:"uuid"`
	City                 string   `json:"city"`
	Category             string   `json:"category"`
	DefaultPrice         float64  `json:"default_price"`
	BasePrice            float64  `json:"base_price"`
	LastAdjustmentAmount *float64 `json:"last_adjustment_amount"`
	LastAdjustmentDate   *string  `json:"last_adjustment_date"`
	CreatedAt            string   `json:"created_at"`
}

type CreateCityPriceResponse struct {
	Message   string       `json:"message"`
	CityPrice CityPriceDTO `json:"city_price"`
}

// ListCityPricesRequest filters the city price listing. Search matches city substrings.
type ListCityPricesRequest struct {
	City     *string `json:"city,omitempty"`
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=copart iaai manheim"`
	Search   *string `json:"search,omitempty"`
}

type ListCityPricesResponse struct {
	Message string         `json:"message"`
	Items   []CityPriceDTO `json:"items"`
}

// UpdateCityPriceRequest selects a row by (city, category) and declares a new baseline
// and/or renames the row. A supplied base_price overwrites both base_price and
// default_price and resets last_adjustment_amount to zero.
type UpdateCityPriceRequest struct {
	City        string   `json:"city" validate:"required"`
	Category    string   `json:"category" validate:"required,oneof=copart iaai manheim"`
	BasePrice   *float64 `json:"base_price,omitempty" validate:"omitempty,gte=0"`
	NewCity     *string  `json:"new_city,omitempty"`
	NewCategory *string  `json:"new_category,omitempty" validate:"omitempty,oneof=copart iaai manheim"`
}

type UpdateCityPriceResponse struct {
	Message   string       `json:"message"`
	CityPrice CityPriceDTO `json:"city_price"`
}

type RemoveCityPriceResponse struct {
	Message string `json:"message"`
}

// AdjustBasePriceRequest re-bases every city price in a category (optionally one city):
// base_price := default_price + adjustment_amount. The delta is a set from the
// baseline, not an increment, so repeating the call is idempotent.
type AdjustBasePriceRequest struct {
	Category         string  `json:"category" validate:"required,oneof=copart iaai manheim"`
	City             *string `json:"city,omitempty"`
	AdjustmentAmount float64 `json:"adjustment_amount"`
}

type AdjustBasePriceResponse struct {
	Message       string `json:"message"`
	ModifiedCount int64  `json:"modifiedCount"`
}
