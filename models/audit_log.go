package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ActorID      *uuid.UUID      `gorm:"type:uuid;index:idx_audit_actor_id" json:"actor_id,omitempty"`
	Action       string          `gorm:"size:64;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionCityPriceCreated   = "city_price_created"
	AuditActionCityPriceUpdated   = "city_price_updated"
	AuditActionCityPriceRemoved   = "city_price_removed"
	AuditActionBasePriceRebased   = "base_price_rebased"
	AuditActionPriceAdjusted      = "price_adjusted"
	AuditActionCityPricesExported = "city_prices_exported"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	ActorID       *uuid.UUID
	Action        *string
	Success       *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
