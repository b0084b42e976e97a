package testing

import (
	"fmt"

	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/utils"
	"github.com/google/uuid"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCityPrice creates a city price row with the given base price as both the
// effective base and the baseline
func (tf *TestFixtures) CreateTestCityPrice(city, category string, basePrice float64) (*models.CityPrice, error) {
	cityPrice := &models.CityPrice{
		City:         city,
		Category:     category,
		DefaultPrice: basePrice,
		BasePrice:    basePrice,
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(cityPrice).Error; err != nil {
		return nil, fmt.Errorf("failed to create test city price: %w", err)
	}

	return cityPrice, nil
}

// CreateTestAdjustment creates an adjustment row with both components already set
func (tf *TestFixtures) CreateTestAdjustment(userID uuid.UUID, category string, userAmount, adminAmount float64, adjustedBy string) (*models.UserCategoryAdjustment, error) {
	adjustment := &models.UserCategoryAdjustment{
		UserID:                userID,
		Category:              category,
		UserAdjustmentAmount:  userAmount,
		AdminAdjustmentAmount: adminAmount,
		AdjustedBy:            adjustedBy,
		CreatedAt:             utils.UTCNow(),
		UpdatedAt:             utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(adjustment).Error; err != nil {
		return nil, fmt.Errorf("failed to create test adjustment: %w", err)
	}

	return adjustment, nil
}

// RandomUserID returns a fresh user identity for test isolation
func RandomUserID() uuid.UUID {
	return uuid.New()
}
