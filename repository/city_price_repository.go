package repository

import (
	"context"
	"errors"

	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CityPriceRepositoryImpl implements CityPriceRepository interface
type CityPriceRepositoryImpl struct {
	*BaseRepository[models.CityPrice, models.CityPriceFilter]
}

// NewCityPriceRepository creates a new city price repository
func NewCityPriceRepository(db *gorm.DB) CityPriceRepository {
	return &CityPriceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CityPrice, models.CityPriceFilter](db),
	}
}

// ByUUID finds a city price by UUID
func (r *CityPriceRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.CityPrice, error) {
	db := r.getDB(ctx)
	var price models.CityPrice
	err := db.Where("uuid = ?", id).Last(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

// ByCityAndCategory finds the single row for a (city, category) pair; city matches
// case-insensitively.
func (r *CityPriceRepositoryImpl) ByCityAndCategory(ctx context.Context, city, category string) (*models.CityPrice, error) {
	db := r.getDB(ctx)
	var price models.CityPrice
	err := db.Where("LOWER(city) = LOWER(?) AND category = ?", city, category).Last(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

// ByFilter retrieves city prices based on filter criteria
func (r *CityPriceRepositoryImpl) ByFilter(ctx context.Context, filter models.CityPriceFilter, orderBy string, limit, offset int) ([]*models.CityPrice, error) {
	db := r.getDB(ctx)
	var prices []*models.CityPrice

	query := db.Model(&models.CityPrice{})
	query = r.applyFilter(query, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// UpdateBaseline overwrites the baseline of a city price row. A supplied basePrice is a
// newly declared baseline: base_price and default_price both take the value and
// last_adjustment_amount resets to zero. City/category renames are applied as-is.
func (r *CityPriceRepositoryImpl) UpdateBaseline(ctx context.Context, id uint, basePrice *float64, city, category *string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	updates := map[string]any{
		"updated_at": utils.UTCNow(),
	}
	if basePrice != nil {
		updates["base_price"] = *basePrice
		updates["default_price"] = *basePrice
		updates["last_adjustment_amount"] = float64(0)
	}
	if city != nil {
		updates["city"] = *city
	}
	if category != nil {
		updates["category"] = *category
	}

	result := db.Model(&models.CityPrice{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		err = result.Error
		return err
	}
	if result.RowsAffected == 0 {
		err = gorm.ErrRecordNotFound
		return err
	}
	return nil
}

// RebaseByCategory re-bases all rows matching category (optionally one city) in a single
// UPDATE. base_price is computed from default_price inside the statement so a concurrent
// baseline update can never be lost, and applying the same delta twice yields the same
// base_price: this is a set from the untouched baseline, not an increment.
func (r *CityPriceRepositoryImpl) RebaseByCategory(ctx context.Context, category string, city *string, delta float64) (int64, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	query := db.Model(&models.CityPrice{}).Where("category = ?", category)
	if city != nil {
		query = query.Where("LOWER(city) = LOWER(?)", *city)
	}

	now := utils.UTCNow()
	result := query.Updates(map[string]any{
		"base_price":             gorm.Expr("default_price + ?", delta),
		"last_adjustment_amount": delta,
		"last_adjustment_date":   now,
		"updated_at":             now,
	})
	if result.Error != nil {
		err = result.Error
		return 0, err
	}
	return result.RowsAffected, nil
}

// Remove deletes a city price row. Adjustment rows are keyed by (user, category), not by
// city, and are never touched here.
func (r *CityPriceRepositoryImpl) Remove(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Where("id = ?", id).Delete(&models.CityPrice{})
	if result.Error != nil {
		err = result.Error
		return err
	}
	if result.RowsAffected == 0 {
		err = gorm.ErrRecordNotFound
		return err
	}
	return nil
}

// Count returns the number of city prices matching the filter
func (r *CityPriceRepositoryImpl) Count(ctx context.Context, filter models.CityPriceFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.CityPrice{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any city price matching the filter exists
func (r *CityPriceRepositoryImpl) Exists(ctx context.Context, filter models.CityPriceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *CityPriceRepositoryImpl) applyFilter(query *gorm.DB, filter models.CityPriceFilter) *gorm.DB {
	if filter.City != nil {
		query = query.Where("LOWER(city) = LOWER(?)", *filter.City)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Search != nil {
		query = query.Where("city ILIKE ?", "%"+*filter.Search+"%")
	}
	return query
}
