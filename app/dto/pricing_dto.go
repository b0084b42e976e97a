package dto

// AdjustPriceRequest adjusts one component of a user's category-wide price adjustment.
// Admins may name a target user via userId; everyone else adjusts their own price.
type AdjustPriceRequest struct {
	Category         string  `json:"category" validate:"required,oneof=copart iaai manheim"`
	AdjustmentAmount float64 `json:"adjustment_amount"`
	UserID           *string `json:"userId,omitempty"`
}

// AdjustmentDTO mirrors an adjustment row plus the derived total. A missing row is
// rendered as the zero-value shape with a null adjusted_by.
type AdjustmentDTO struct {
	User                  string  `json:"user"`
	Category              string  `json:"category"`
	UserAdjustmentAmount  float64 `json:"user_adjustment_amount"`
	AdminAdjustmentAmount float64 `json:"admin_adjustment_amount"`
	TotalAdjustmentAmount float64 `json:"total_adjustment_amount"`
	AdjustedBy            *string `json:"adjusted_by"`
}

type AdjustPriceResponse struct {
	Message    string        `json:"message"`
	Adjustment AdjustmentDTO `json:"adjustment"`
}

// GetAdjustmentRequest reads one adjustment row for the resolved target user
type GetAdjustmentRequest struct {
	Category string  `json:"category" validate:"required,oneof=copart iaai manheim"`
	UserID   *string `json:"userId,omitempty"`
}

type GetAdjustmentResponse struct {
	Message    string        `json:"message"`
	Adjustment AdjustmentDTO `json:"adjustment"`
}

// ListAdjustmentsRequest lists adjustment rows. Non-admins always see their own rows;
// admins see a single user when userId is given, otherwise all users.
type ListAdjustmentsRequest struct {
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=copart iaai manheim"`
	UserID   *string `json:"userId,omitempty"`
}

type ListAdjustmentsResponse struct {
	Message string          `json:"message"`
	Items   []AdjustmentDTO `json:"items"`
}

// GetPricesRequest fetches effective prices for the resolved target user
type GetPricesRequest struct {
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=copart iaai manheim"`
	City     *string `json:"city,omitempty"`
	UserID   *string `json:"userId,omitempty"`
}

// EffectivePriceItem is the composed price view:
// effective_price = base_price + user_adjustment_amount + admin_adjustment_amount.
type EffectivePriceItem struct {
	City                  string  `json:"city"`
	Category              string  `json:"category"`
	BasePrice             float64 `json:"base_price"`
	UserAdjustmentAmount  float64 `json:"user_adjustment_amount"`
	AdminAdjustmentAmount float64 `json:"admin_adjustment_amount"`
	TotalAdjustmentAmount float64 `json:"total_adjustment_amount"`
	AdjustedBy            *string `json:"adjusted_by"`
	EffectivePrice        float64 `json:"effective_price"`
}

type GetPricesResponse struct {
	Message string               `json:"message"`
	Items   []EffectivePriceItem `json:"items"`
}

// GetEffectivePriceRequest fetches the single composed price for a (city, category)
type GetEffectivePriceRequest struct {
	City     string  `json:"city" validate:"required"`
	Category string  `json:"category" validate:"required,oneof=copart iaai manheim"`
	UserID   *string `json:"userId,omitempty"`
}

type GetEffectivePriceResponse struct {
	Message string             `json:"message"`
	Price   EffectivePriceItem `json:"price"`
}
