package businessflow_test

import (
	"testing"

	businessflow "github.com/carbridge/shipping-pricing/business_flow"
	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivePrice(t *testing.T) {
	cityPrice := &models.CityPrice{
		City:         "Los Angeles",
		Category:     models.CategoryCopart,
		DefaultPrice: 100,
		BasePrice:    300,
	}

	t.Run("NilAdjustmentContributesZero", func(t *testing.T) {
		assert.Equal(t, 300.0, businessflow.EffectivePrice(cityPrice, nil))
	})

	t.Run("BothComponentsAdded", func(t *testing.T) {
		adjustment := &models.UserCategoryAdjustment{
			Category:              models.CategoryCopart,
			UserAdjustmentAmount:  50,
			AdminAdjustmentAmount: 20,
		}
		assert.Equal(t, 370.0, businessflow.EffectivePrice(cityPrice, adjustment))
	})

	t.Run("NegativeComponentsSubtract", func(t *testing.T) {
		adjustment := &models.UserCategoryAdjustment{
			Category:              models.CategoryCopart,
			UserAdjustmentAmount:  -400,
			AdminAdjustmentAmount: 0,
		}
		// Composition is exact, no clamping at zero
		assert.Equal(t, -100.0, businessflow.EffectivePrice(cityPrice, adjustment))
	})
}

func TestRebase(t *testing.T) {
	t.Run("AppliesDeltaToBaseline", func(t *testing.T) {
		assert.Equal(t, 300.0, businessflow.Rebase(100, 200))
	})

	t.Run("Idempotent", func(t *testing.T) {
		first := businessflow.Rebase(100, 200)
		second := businessflow.Rebase(100, 200)
		assert.Equal(t, first, second)
	})

	t.Run("ReplacesPreviousDelta", func(t *testing.T) {
		// A second re-basing with a different delta starts from the baseline again
		assert.Equal(t, 150.0, businessflow.Rebase(100, 50))
	})
}

func TestMergeByCategory(t *testing.T) {
	userID := uuid.New()
	cityPrices := []*models.CityPrice{
		{City: "Los Angeles", Category: models.CategoryCopart, BasePrice: 300},
		{City: "Miami", Category: models.CategoryCopart, BasePrice: 250},
		{City: "Dallas", Category: models.CategoryIAAI, BasePrice: 180},
	}
	adjustments := []*models.UserCategoryAdjustment{
		{
			UserID:                userID,
			Category:              models.CategoryCopart,
			UserAdjustmentAmount:  50,
			AdminAdjustmentAmount: 20,
			AdjustedBy:            models.AdjustedByAdmin,
		},
	}

	items := businessflow.MergeByCategory(cityPrices, adjustments)
	require.Len(t, items, 3)

	t.Run("AdjustmentAppliesToEveryCityInCategory", func(t *testing.T) {
		assert.Equal(t, 370.0, items[0].EffectivePrice)
		assert.Equal(t, 320.0, items[1].EffectivePrice)
		assert.Equal(t, 70.0, items[0].TotalAdjustmentAmount)
		assert.Equal(t, utils.ToPtr(models.AdjustedByAdmin), items[0].AdjustedBy)
	})

	t.Run("UnadjustedCategoryReadsAsZero", func(t *testing.T) {
		assert.Equal(t, "Dallas", items[2].City)
		assert.Equal(t, 180.0, items[2].EffectivePrice)
		assert.Zero(t, items[2].UserAdjustmentAmount)
		assert.Zero(t, items[2].AdminAdjustmentAmount)
		assert.Nil(t, items[2].AdjustedBy)
	})

	t.Run("EmptyInputsYieldEmptySlice", func(t *testing.T) {
		assert.Empty(t, businessflow.MergeByCategory(nil, adjustments))
	})
}
