package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserCategoryAdjustmentRepositoryImpl implements UserCategoryAdjustmentRepository
type UserCategoryAdjustmentRepositoryImpl struct {
	*BaseRepository[models.UserCategoryAdjustment, models.UserCategoryAdjustmentFilter]
}

// NewUserCategoryAdjustmentRepository creates a new adjustment repository
func NewUserCategoryAdjustmentRepository(db *gorm.DB) UserCategoryAdjustmentRepository {
	return &UserCategoryAdjustmentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.UserCategoryAdjustment, models.UserCategoryAdjustmentFilter](db),
	}
}

// UpsertComponent writes exactly one adjustment component for the (user, category) pair
// as a single INSERT ... ON CONFLICT DO UPDATE guarded by the unique
// (user_id, category) index. Concurrent user-writes and admin-writes for the same pair
// can therefore never create two rows or clobber each other's component.
func (r *UserCategoryAdjustmentRepositoryImpl) UpsertComponent(ctx context.Context, userID uuid.UUID, category, role string, amount float64) (*models.UserCategoryAdjustment, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return nil, err
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

	now := utils.UTCNow()
	row := &models.UserCategoryAdjustment{
		UserID:     userID,
		Category:   category,
		AdjustedBy: role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	column := "user_adjustment_amount"
	if role == models.AdjustedByAdmin {
		column = "admin_adjustment_amount"
		row.AdminAdjustmentAmount = amount
	} else {
		row.UserAdjustmentAmount = amount
	}

	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "category"}},
		DoUpdates: clause.Assignments(map[string]any{
			column:        amount,
			"adjusted_by": role,
			"updated_at":  now,
		}),
	}).Create(row).Error
	if err != nil {
		err = fmt.Errorf("failed to upsert adjustment component: %w", err)
		return nil, err
	}

	// Re-read within the same connection: on the insert path the returned struct does
	// not carry the other component's persisted value.
	var merged models.UserCategoryAdjustment
	err = db.Where("user_id = ? AND category = ?", userID, category).Last(&merged).Error
	if err != nil {
		err = fmt.Errorf("failed to load upserted adjustment: %w", err)
		return nil, err
	}
	return &merged, nil
}

// ByUserAndCategory finds one adjustment row; a nil result is the valid zero-value state
func (r *UserCategoryAdjustmentRepositoryImpl) ByUserAndCategory(ctx context.Context, userID uuid.UUID, category string) (*models.UserCategoryAdjustment, error) {
	db := r.getDB(ctx)
	var adjustment models.UserCategoryAdjustment
	err := db.Where("user_id = ? AND category = ?", userID, category).Last(&adjustment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &adjustment, nil
}

// ListByUser returns all adjustment rows for a user across categories
func (r *UserCategoryAdjustmentRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserCategoryAdjustment, error) {
	db := r.getDB(ctx)
	var adjustments []*models.UserCategoryAdjustment
	err := db.Where("user_id = ?", userID).Order("category ASC").Find(&adjustments).Error
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}

// ByFilter retrieves adjustments based on filter criteria
func (r *UserCategoryAdjustmentRepositoryImpl) ByFilter(ctx context.Context, filter models.UserCategoryAdjustmentFilter, orderBy string, limit, offset int) ([]*models.UserCategoryAdjustment, error) {
	db := r.getDB(ctx)
	var adjustments []*models.UserCategoryAdjustment

	query := db.Model(&models.UserCategoryAdjustment{})
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

	err := query.Find(&adjustments).Error
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Count returns the number of adjustments matching the filter
func (r *UserCategoryAdjustmentRepositoryImpl) Count(ctx context.Context, filter models.UserCategoryAdjustmentFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.UserCategoryAdjustment{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any adjustment matching the filter exists
func (r *UserCategoryAdjustmentRepositoryImpl) Exists(ctx context.Context, filter models.UserCategoryAdjustmentFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *UserCategoryAdjustmentRepositoryImpl) applyFilter(query *gorm.DB, filter models.UserCategoryAdjustmentFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	return query
}
