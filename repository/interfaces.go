// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/carbridge/shipping-pricing/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CityPriceRepository defines operations for base city prices
type CityPriceRepository interface {
	Repository[models.CityPrice, models.CityPriceFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.CityPrice, error)
	ByCityAndCategory(ctx context.Context, city, category string) (*models.CityPrice, error)
	// UpdateBaseline overwrites the row's baseline: when basePrice is set, both
	// base_price and default_price take the new value and last_adjustment_amount is
	// reset to zero.
	UpdateBaseline(ctx context.Context, id uint, basePrice *float64, city, category *string) error
	// RebaseByCategory re-bases every row matching category (optionally narrowed to one
	// city) with a single atomic UPDATE computing base_price from default_price at the
	// database level. Returns the number of rows touched.
	RebaseByCategory(ctx context.Context, category string, city *string, delta float64) (int64, error)
	Remove(ctx context.Context, id uint) error
}

// UserCategoryAdjustmentRepository defines operations for per-(user, category) adjustments
type UserCategoryAdjustmentRepository interface {
	Repository[models.UserCategoryAdjustment, models.UserCategoryAdjustmentFilter]
	// UpsertComponent atomically sets exactly one adjustment component (picked by role)
	// for the (user, category) pair, leaving the other component untouched, and returns
	// the merged row. Guarded by the unique (user_id, category) index.
	UpsertComponent(ctx context.Context, userID uuid.UUID, category, role string, amount float64) (*models.UserCategoryAdjustment, error)
	ByUserAndCategory(ctx context.Context, userID uuid.UUID, category string) (*models.UserCategoryAdjustment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserCategoryAdjustment, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}
