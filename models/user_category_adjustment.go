package models

import (
	"time"

	"github.com/google/uuid"
)

// AdjustedBy values record which adjustment component was most recently written.
const (
	AdjustedByUser  = "user"
	AdjustedByAdmin = "admin"
)

// UserCategoryAdjustment holds a user's price adjustment for an entire category, split
// into a user-owned and an admin-owned component. The components are mutually
// independent: writing one never changes or clears the other. One row per
// (user, category), created lazily on first adjustment; a missing row reads as both
// components zero.
// Table: user_category_adjustments
type UserCategoryAdjustment struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_category_adjustments_user_category,priority:1" json:"user"`
	Category string    `gorm:"size:32;not null;uniqueIndex:idx_user_category_adjustments_user_category,priority:2" json:"category"`

	UserAdjustmentAmount  float64 `gorm:"type:numeric(12,2);not null;default:0" json:"user_adjustment_amount"`
	AdminAdjustmentAmount float64 `gorm:"type:numeric(12,2);not null;default:0" json:"admin_adjustment_amount"`
	AdjustedBy            string  `gorm:"size:16;not null" json:"adjusted_by"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (UserCategoryAdjustment) TableName() string {
	return "user_category_adjustments"
}

// TotalAdjustment is the derived sum of both components; it is never stored.
func (a *UserCategoryAdjustment) TotalAdjustment() float64 {
	return a.UserAdjustmentAmount + a.AdminAdjustmentAmount
}

// UserCategoryAdjustmentFilter represents filter criteria for adjustment queries
type UserCategoryAdjustmentFilter struct {
	UserID   *uuid.UUID `json:"user,omitempty"`
	Category *string    `json:"category,omitempty"`
}
