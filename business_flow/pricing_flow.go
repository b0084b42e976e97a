package businessflow

import (
	"context"
	"encoding/json"

	"github.com/carbridge/shipping-pricing/app/dto"
	"github.com/carbridge/shipping-pricing/config"
	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/repository"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PricingFlow handles the role-aware pricing business logic
type PricingFlow interface {
	AdjustPrice(ctx context.Context, req *dto.AdjustPriceRequest, actor Actor) (*dto.AdjustPriceResponse, error)
	GetAdjustment(ctx context.Context, req *dto.GetAdjustmentRequest, actor Actor) (*dto.GetAdjustmentResponse, error)
	GetAllAdjustments(ctx context.Context, req *dto.ListAdjustmentsRequest, actor Actor) (*dto.ListAdjustmentsResponse, error)
	GetPrices(ctx context.Context, req *dto.GetPricesRequest, actor Actor) (*dto.GetPricesResponse, error)
	GetEffectivePrice(ctx context.Context, req *dto.GetEffectivePriceRequest, actor Actor) (*dto.GetEffectivePriceResponse, error)
}

// PricingFlowImpl implements the pricing business flow
type PricingFlowImpl struct {
	cityPriceRepo  repository.CityPriceRepository
	adjustmentRepo repository.UserCategoryAdjustmentRepository
	auditRepo      repository.AuditLogRepository
	validator      *validator.Validate
	db             *gorm.DB
	rc             *redis.Client
	cacheConfig    *config.CacheConfig
}

// NewPricingFlow creates a new pricing flow instance. rc and cacheConfig may be nil to
// run without the read cache.
func NewPricingFlow(
	cityPriceRepo repository.CityPriceRepository,
	adjustmentRepo repository.UserCategoryAdjustmentRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) PricingFlow {
	return &PricingFlowImpl{
		cityPriceRepo:  cityPriceRepo,
		adjustmentRepo: adjustmentRepo,
		auditRepo:      auditRepo,
		validator:      validator.New(),
		db:             db,
		rc:             rc,
		cacheConfig:    cacheConfig,
	}
}

// AdjustPrice writes one component of the target user's category adjustment. The
// component is picked by the resolved role: acting on yourself writes the user-owned
// component, an admin acting on someone else writes the admin-owned one.
func (f *PricingFlowImpl) AdjustPrice(ctx context.Context, req *dto.AdjustPriceRequest, actor Actor) (*dto.AdjustPriceResponse, error) {
	if err := f.validator.Struct(req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid adjust price request", err)
	}

	scope, err := ResolveTarget(actor, req.UserID)
	if err != nil {
		return nil, err
	}

	var merged *models.UserCategoryAdjustment
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		row, err := f.adjustmentRepo.UpsertComponent(txCtx, scope.UserID, req.Category, scope.Role, req.AdjustmentAmount)
		if err != nil {
			return err
		}
		merged = row
		saveAudit(txCtx, f.auditRepo, actor, models.AuditActionPriceAdjusted, map[string]any{
			"target_user":       scope.UserID.String(),
			"category":          req.Category,
			"role":              scope.Role,
			"adjustment_amount": req.AdjustmentAmount,
		}, nil)
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("ADJUST_PRICE_FAILED", "Failed to adjust price", err)
	}

	adjustmentWritesTotal.WithLabelValues(scope.Role).Inc()

	return &dto.AdjustPriceResponse{
		Message:    "Price adjusted successfully",
		Adjustment: ToAdjustmentDTO(*merged),
	}, nil
}

// GetAdjustment returns the target user's adjustment for one category. A missing row is
// the valid zero-value state, never an error.
func (f *PricingFlowImpl) GetAdjustment(ctx context.Context, req *dto.GetAdjustmentRequest, actor Actor) (*dto.GetAdjustmentResponse, error) {
	if err := f.validator.Struct(req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid get adjustment request", err)
	}

	scope, err := ResolveTarget(actor, req.UserID)
	if err != nil {
		return nil, err
	}

	row, err := f.adjustmentRepo.ByUserAndCategory(ctx, scope.UserID, req.Category)
	if err != nil {
		return nil, NewBusinessError("GET_ADJUSTMENT_FAILED", "Failed to get adjustment", err)
	}

	adjustment := zeroAdjustmentDTO(scope.UserID, req.Category)
	if row != nil {
		adjustment = ToAdjustmentDTO(*row)
	}

	return &dto.GetAdjustmentResponse{
		Message:    "Adjustment retrieved successfully",
		Adjustment: adjustment,
	}, nil
}

// GetAllAdjustments lists adjustment rows. Admins naming no target get the
// category-wide view across users; everyone else sees only the resolved target.
func (f *PricingFlowImpl) GetAllAdjustments(ctx context.Context, req *dto.ListAdjustmentsRequest, actor Actor) (*dto.ListAdjustmentsResponse, error) {
	if err := f.validator.Struct(req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid list adjustments request", err)
	}

	scopeUserID, err := ResolveListScope(actor, req.UserID)
	if err != nil {
		return nil, err
	}

	filter := models.UserCategoryAdjustmentFilter{
		UserID:   scopeUserID,
		Category: req.Category,
	}
	rows, err := f.adjustmentRepo.ByFilter(ctx, filter, "user_id ASC, category ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_ADJUSTMENTS_FAILED", "Failed to list adjustments", err)
	}

	items := make([]dto.AdjustmentDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToAdjustmentDTO(*row))
	}

	return &dto.ListAdjustmentsResponse{
		Message: "Adjustments retrieved successfully",
		Items:   items,
	}, nil
}

// GetPrices composes effective prices for every matching city. City prices and the
// target's adjustments are fetched in two batch reads and merged in one pass; the
// adjustment fetch is per user, not per city.
func (f *PricingFlowImpl) GetPrices(ctx context.Context, req *dto.GetPricesRequest, actor Actor) (*dto.GetPricesResponse, error) {
	if err := f.validator.Struct(req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid get prices request", err)
	}

	scope, err := ResolveTarget(actor, req.UserID)
	if err != nil {
		return nil, err
	}

	cityPrices, err := f.cityPrices(ctx, req.Category, req.City)
	if err != nil {
		return nil, NewBusinessError("GET_PRICES_FAILED", "Failed to get city prices", err)
	}

	adjustments, err := f.adjustmentRepo.ListByUser(ctx, scope.UserID)
	if err != nil {
		return nil, NewBusinessError("GET_PRICES_FAILED", "Failed to get adjustments", err)
	}

	effectivePriceReadsTotal.Inc()

	return &dto.GetPricesResponse{
		Message: "Prices retrieved successfully",
		Items:   MergeByCategory(cityPrices, adjustments),
	}, nil
}

// GetEffectivePrice composes the single price for a (city, category). The city price
// must exist; a missing adjustment row reads as zero.
func (f *PricingFlowImpl) GetEffectivePrice(ctx context.Context, req *dto.GetEffectivePriceRequest, actor Actor) (*dto.GetEffectivePriceResponse, error) {
	if err := f.validator.Struct(req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid get effective price request", err)
	}

	scope, err := ResolveTarget(actor, req.UserID)
	if err != nil {
		return nil, err
	}

	cityPrice, err := f.cityPriceRepo.ByCityAndCategory(ctx, req.City, req.Category)
	if err != nil {
		return nil, NewBusinessError("GET_EFFECTIVE_PRICE_FAILED", "Failed to get city price", err)
	}
	if cityPrice == nil {
		return nil, NewBusinessError("CITY_PRICE_NOT_FOUND", "City price not found", ErrCityPriceNotFound)
	}

	adjustment, err := f.adjustmentRepo.ByUserAndCategory(ctx, scope.UserID, req.Category)
	if err != nil {
		return nil, NewBusinessError("GET_EFFECTIVE_PRICE_FAILED", "Failed to get adjustment", err)
	}

	effectivePriceReadsTotal.Inc()

	return &dto.GetEffectivePriceResponse{
		Message: "Effective price retrieved successfully",
		Price:   toEffectivePriceItem(cityPrice, adjustment),
	}, nil
}

// cityPrices fetches matching city price rows, serving category-level listings from
// redis when the cache is configured. City-narrowed reads skip the cache.
func (f *PricingFlowImpl) cityPrices(ctx context.Context, category, city *string) ([]*models.CityPrice, error) {
	cacheable := city == nil && f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled
	if !cacheable {
		return f.cityPriceRepo.ByFilter(ctx, models.CityPriceFilter{Category: category, City: city}, "city ASC", 0, 0)
	}

	key := cityPriceCacheKey(*f.cacheConfig, category)
	if bs, err := f.rc.Get(ctx, key).Bytes(); err == nil && len(bs) > 0 {
		var rows []*models.CityPrice
		if json.Unmarshal(bs, &rows) == nil {
			cityPriceCacheRequestsTotal.WithLabelValues("hit").Inc()
			return rows, nil
		}
	}
	cityPriceCacheRequestsTotal.WithLabelValues("miss").Inc()

	rows, err := f.cityPriceRepo.ByFilter(ctx, models.CityPriceFilter{Category: category}, "city ASC", 0, 0)
	if err != nil {
		return nil, err
	}

	if bs, err := json.Marshal(rows); err == nil {
		_ = f.rc.Set(ctx, key, bs, f.cacheConfig.DefaultTTL).Err()
	}
	return rows, nil
}
