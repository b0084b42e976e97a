// Package businessflow contains the business logic for the shipping pricing module.
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/carbridge/shipping-pricing/app/dto"
	"github.com/carbridge/shipping-pricing/config"
	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/repository"
	"github.com/carbridge/shipping-pricing/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ToCityPriceDTO converts a city price model to its wire representation
func ToCityPriceDTO(price models.CityPrice) dto.CityPriceDTO {
	out := dto.CityPriceDTO{
		UUID:                 price.UUID.String(),
		City:                 price.City,
		Category:             price.Category,
		DefaultPrice:         price.DefaultPrice,
		BasePrice:            price.BasePrice,
		LastAdjustmentAmount: price.LastAdjustmentAmount,
		CreatedAt:            price.CreatedAt.Format(time.RFC3339),
	}
	if price.LastAdjustmentDate != nil {
		out.LastAdjustmentDate = utils.ToPtr(price.LastAdjustmentDate.Format(time.RFC3339))
	}
	return out
}

// ToAdjustmentDTO converts an adjustment row to its wire representation
func ToAdjustmentDTO(adjustment models.UserCategoryAdjustment) dto.AdjustmentDTO {
	return dto.AdjustmentDTO{
		User:                  adjustment.UserID.String(),
		Category:              adjustment.Category,
		UserAdjustmentAmount:  adjustment.UserAdjustmentAmount,
		AdminAdjustmentAmount: adjustment.AdminAdjustmentAmount,
		TotalAdjustmentAmount: adjustment.TotalAdjustment(),
		AdjustedBy:            utils.ToPtr(adjustment.AdjustedBy),
	}
}

// zeroAdjustmentDTO renders the valid zero-value state for a missing adjustment row
func zeroAdjustmentDTO(userID uuid.UUID, category string) dto.AdjustmentDTO {
	return dto.AdjustmentDTO{
		User:     userID.String(),
		Category: category,
	}
}

// saveAudit records an audit entry for a pricing operation. Audit failures are logged
// and swallowed unless the caller runs inside a transaction, where the repository's
// tx-in-context makes the write part of the surrounding operation.
func saveAudit(ctx context.Context, auditRepo repository.AuditLogRepository, actor Actor, action string, metadata map[string]any, opErr error) {
	if auditRepo == nil {
		return
	}

	entry := &models.AuditLog{
		Action:    action,
		Success:   utils.ToPtr(opErr == nil),
		CreatedAt: utils.UTCNow(),
	}
	if actorID, err := uuid.Parse(actor.UserID); err == nil {
		entry.ActorID = &actorID
	}
	if opErr != nil {
		entry.ErrorMessage = utils.ToPtr(opErr.Error())
	}
	if len(metadata) > 0 {
		if bs, err := json.Marshal(metadata); err == nil {
			entry.Metadata = bs
		}
	}

	if err := auditRepo.Save(ctx, entry); err != nil {
		log.Println("failed to save audit log:", err)
	}
}

// cityPriceCacheKey derives the redis key for a cached category listing
func cityPriceCacheKey(cfg config.CacheConfig, category *string) string {
	scope := "all"
	if category != nil {
		scope = *category
	}
	return fmt.Sprintf("%s:city_prices:%s", cfg.RedisPrefix, scope)
}

// invalidateCityPriceCache drops every cached city price listing. Admin writes call
// this so readers never serve a stale base price past the write.
func invalidateCityPriceCache(ctx context.Context, rc *redis.Client, cfg *config.CacheConfig) {
	if rc == nil || cfg == nil || !cfg.Enabled {
		return
	}

	keys := make([]string, 0, 4)
	keys = append(keys, cityPriceCacheKey(*cfg, nil))
	for _, category := range models.Categories() {
		keys = append(keys, cityPriceCacheKey(*cfg, &category))
	}
	if err := rc.Del(ctx, keys...).Err(); err != nil {
		log.Println("failed to invalidate city price cache:", err)
	}
}
