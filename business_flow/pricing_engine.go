package businessflow

import (
	"github.com/carbridge/shipping-pricing/app/dto"
	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/utils"
)

// Pure price composition. No I/O happens here: stores fetch rows, these functions
// combine them. Composition is exact float addition with no rounding or clamping.

// EffectivePrice composes a city's base price with a user's category adjustment.
// A nil adjustment contributes zero from both components.
func EffectivePrice(cityPrice *models.CityPrice, adjustment *models.UserCategoryAdjustment) float64 {
	price := cityPrice.BasePrice
	if adjustment != nil {
		price += adjustment.UserAdjustmentAmount + adjustment.AdminAdjustmentAmount
	}
	return price
}

// Rebase derives the effective base price from the untouched baseline and a category
// delta. The delta always applies to default_price, never to the current base_price,
// which is what makes repeated re-basing idempotent.
func Rebase(defaultPrice, delta float64) float64 {
	return defaultPrice + delta
}

// MergeByCategory joins city prices with a user's adjustments in a single pass: the
// adjustments are keyed by category once, then every city price is mapped to its
// composed view. Adjustments apply per category, so one row covers every city in it.
func MergeByCategory(cityPrices []*models.CityPrice, adjustments []*models.UserCategoryAdjustment) []dto.EffectivePriceItem {
	byCategory := make(map[string]*models.UserCategoryAdjustment, len(adjustments))
	for _, a := range adjustments {
		byCategory[a.Category] = a
	}

	items := make([]dto.EffectivePriceItem, 0, len(cityPrices))
	for _, cp := range cityPrices {
		items = append(items, toEffectivePriceItem(cp, byCategory[cp.Category]))
	}
	return items
}

func toEffectivePriceItem(cityPrice *models.CityPrice, adjustment *models.UserCategoryAdjustment) dto.EffectivePriceItem {
	item := dto.EffectivePriceItem{
		City:           cityPrice.City,
		Category:       cityPrice.Category,
		BasePrice:      cityPrice.BasePrice,
		EffectivePrice: EffectivePrice(cityPrice, adjustment),
	}
	if adjustment != nil {
		item.UserAdjustmentAmount = adjustment.UserAdjustmentAmount
		item.AdminAdjustmentAmount = adjustment.AdminAdjustmentAmount
		item.TotalAdjustmentAmount = adjustment.TotalAdjustment()
		item.AdjustedBy = utils.ToPtr(adjustment.AdjustedBy)
	}
	return item
}
