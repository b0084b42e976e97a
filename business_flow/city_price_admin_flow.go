package businessflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carbridge/shipping-pricing/app/dto"
	"github.com/carbridge/shipping-pricing/config"
	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/repository"
	"github.com/carbridge/shipping-pricing/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CityPriceAdminFlow handles the admin-side management of base city prices
type CityPriceAdminFlow interface {
	CreateCityPrice(ctx context.Context, req *dto.CreateCityPriceRequest, actor Actor) (*dto.CreateCityPriceResponse, error)
	ListCityPrices(ctx context.Context, req *dto.ListCityPricesRequest) (*dto.ListCityPricesResponse, error)
	UpdateCityPrice(ctx context.Context, req *dto.UpdateCityPriceRequest, actor Actor) (*dto.UpdateCityPriceResponse, error)
	RemoveCityPrice(ctx context.Context, id string, actor Actor) (*dto.RemoveCityPriceResponse, error)
	AdjustBasePrice(ctx context.Context, req *dto.AdjustBasePriceRequest, actor Actor) (*dto.AdjustBasePriceResponse, error)
	ExportCityPrices(ctx context.Context, req *dto.ListCityPricesRequest, actor Actor) (string, []byte, error)
}

// CityPriceAdminFlowImpl implements the city price admin flow
type CityPriceAdminFlowImpl struct {
	cityPriceRepo repository.CityPriceRepository
	auditRepo     repository.AuditLogRepository
	validator     *validator.Validate
	db            *gorm.DB
	rc            *redis.Client
	cacheConfig   *config.CacheConfig
}

// NewCityPriceAdminFlow creates a new city price admin flow instance
func NewCityPriceAdminFlow(
	cityPriceRepo repository.CityPriceRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) CityPriceAdminFlow {
	return &CityPriceAdminFlowImpl{
		cityPriceRepo: cityPriceRepo,
		auditRepo:     auditRepo,
		validator:     validator.New(),
		db:            db,
		rc:            rc,
		cacheConfig:   cacheConfig,
	}
}

// CreateCityPrice creates a base price row for a (city, category). The supplied price
// becomes both the effective base and the untouched baseline.
func (f *CityPriceAdminFlowImpl) CreateCityPrice(ctx context.Context, req *dto.CreateCityPriceRequest, actor Actor) (*dto.CreateCityPriceResponse, error) {
	if err := f.validator.Struct(req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid create city price request", err)
	}
	if strings.TrimSpace(req.City) == "" {
		return nil, NewBusinessError("CITY_REQUIRED", "City is required", ErrCityRequired)
	}

	existing, err := f.cityPriceRepo.ByCityAndCategory(ctx, req.City, req.Category)
	if err != nil {
		return nil, NewBusinessError("CREATE_CITY_PRICE_FAILED", "Failed to check existing city price", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("CITY_PRICE_ALREADY_EXISTS",
			"City price for %s/%s already exists", ErrCityPriceAlreadyExists, req.City, req.Category)
	}

	cityPrice := &models.CityPrice{
		City:         strings.TrimSpace(req.City),
		Category:     req.Category,
		DefaultPrice: req.BasePrice,
		BasePrice:    req.BasePrice,
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.cityPriceRepo.Save(txCtx, cityPrice); err != nil {
			// The expression index catches a concurrent create that slipped past the
			// pre-check.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCityPriceAlreadyExists
			}
			return err
		}
		saveAudit(txCtx, f.auditRepo, actor, models.AuditActionCityPriceCreated, map[string]any{
			"city":       cityPrice.City,
			"category":   cityPrice.Category,
			"base_price": cityPrice.BasePrice,
		}, nil)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCityPriceAlreadyExists) {
			return nil, NewBusinessErrorf("CITY_PRICE_ALREADY_EXISTS",
				"City price for %s/%s already exists", ErrCityPriceAlreadyExists, req.City, req.Category)
		}
		return nil, NewBusinessError("CREATE_CITY_PRICE_FAILED", "Failed to create city price", err)
	}

	invalidateCityPriceCache(ctx, f.rc, f.cacheConfig)

	return &dto.CreateCityPriceResponse{
		Message:   "City price created successfully",
		CityPrice: ToCityPriceDTO(*cityPrice),
	}, nil
}

// ListCityPrices lists base price rows matching the filter
func (f *CityPriceAdminFlowImpl) ListCityPrices(ctx context.Context, req *dto.ListCityPricesRequest) (*dto.ListCityPricesResponse, error) {
	if err := f.validator.Struct(req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid list city prices request", err)
	}

	rows, err := f.cityPriceRepo.ByFilter(ctx, models.CityPriceFilter{
		City:     req.City,
		Category: req.Category,
		Search:   req.Search,
	}, "category ASC, city ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_CITY_PRICES_FAILED", "Failed to list city prices", err)
	}

	items := make([]dto.CityPriceDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToCityPriceDTO(*row))
	}

	return &dto.ListCityPricesResponse{
		Message: "City prices retrieved successfully",
		Items:   items,
	}, nil
}

// UpdateCityPrice rewrites the baseline and/or renames the row selected by
// (city, category). A supplied base price becomes the new baseline: default_price
// takes the same value and last_adjustment_amount resets to zero, so the invariant
// base_price == default_price + last_adjustment_amount keeps holding.
func (f *CityPriceAdminFlowImpl) UpdateCityPrice(ctx context.Context, req *dto.UpdateCityPriceRequest, actor Actor) (*dto.UpdateCityPriceResponse, error) {
	if err := f.validator.Struct(req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid update city price request", err)
	}
	if req.BasePrice == nil && req.NewCity == nil && req.NewCategory == nil {
		return nil, NewBusinessError("UPDATE_FIELDS_REQUIRED", "At least one field must be provided for update", ErrUpdateFieldsRequired)
	}

	existing, err := f.cityPriceRepo.ByCityAndCategory(ctx, req.City, req.Category)
	if err != nil {
		return nil, NewBusinessError("UPDATE_CITY_PRICE_FAILED", "Failed to find city price", err)
	}
	if existing == nil {
		return nil, NewBusinessErrorf("CITY_PRICE_NOT_FOUND",
			"City price for %s/%s not found", ErrCityPriceNotFound, req.City, req.Category)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.cityPriceRepo.UpdateBaseline(txCtx, existing.ID, req.BasePrice, req.NewCity, req.NewCategory); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCityPriceAlreadyExists
			}
			return err
		}
		saveAudit(txCtx, f.auditRepo, actor, models.AuditActionCityPriceUpdated, map[string]any{
			"city":           req.City,
			"category":       req.Category,
			"new_base_price": req.BasePrice,
			"new_city":       req.NewCity,
			"new_category":   req.NewCategory,
		}, nil)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCityPriceAlreadyExists) {
			return nil, NewBusinessError("CITY_PRICE_ALREADY_EXISTS",
				"Another city price already occupies the target city and category", ErrCityPriceAlreadyExists)
		}
		return nil, NewBusinessError("UPDATE_CITY_PRICE_FAILED", "Failed to update city price", err)
	}

	invalidateCityPriceCache(ctx, f.rc, f.cacheConfig)

	updated, err := f.cityPriceRepo.ByID(ctx, existing.ID)
	if err != nil || updated == nil {
		return nil, NewBusinessError("UPDATE_CITY_PRICE_FAILED", "Failed to reload city price", err)
	}

	return &dto.UpdateCityPriceResponse{
		Message:   "City price updated successfully",
		CityPrice: ToCityPriceDTO(*updated),
	}, nil
}

// RemoveCityPrice deletes the row identified by its public uuid. Deletion never touches
// adjustment rows; those live per (user, category), not per city.
func (f *CityPriceAdminFlowImpl) RemoveCityPrice(ctx context.Context, id string, actor Actor) (*dto.RemoveCityPriceResponse, error) {
	rowUUID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid city price id", err)
	}

	existing, err := f.cityPriceRepo.ByUUID(ctx, rowUUID)
	if err != nil {
		return nil, NewBusinessError("REMOVE_CITY_PRICE_FAILED", "Failed to find city price", err)
	}
	if existing == nil {
		return nil, NewBusinessError("CITY_PRICE_NOT_FOUND", "City price not found", ErrCityPriceNotFound)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.cityPriceRepo.Remove(txCtx, existing.ID); err != nil {
			return err
		}
		saveAudit(txCtx, f.auditRepo, actor, models.AuditActionCityPriceRemoved, map[string]any{
			"uuid":     existing.UUID.String(),
			"city":     existing.City,
			"category": existing.Category,
		}, nil)
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("REMOVE_CITY_PRICE_FAILED", "Failed to remove city price", err)
	}

	invalidateCityPriceCache(ctx, f.rc, f.cacheConfig)

	return &dto.RemoveCityPriceResponse{
		Message: "City price removed successfully",
	}, nil
}

// AdjustBasePrice re-bases every city price in the category, optionally narrowed to one
// city. Each touched row gets base_price = default_price + adjustment_amount in a single
// database-level UPDATE, so the delta is a set from the baseline and repeating the call
// changes nothing.
func (f *CityPriceAdminFlowImpl) AdjustBasePrice(ctx context.Context, req *dto.AdjustBasePriceRequest, actor Actor) (*dto.AdjustBasePriceResponse, error) {
	if err := f.validator.Struct(req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid adjust base price request", err)
	}

	var modified int64
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		count, err := f.cityPriceRepo.RebaseByCategory(txCtx, req.Category, req.City, req.AdjustmentAmount)
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNoCityPricesMatched
		}
		modified = count
		saveAudit(txCtx, f.auditRepo, actor, models.AuditActionBasePriceRebased, map[string]any{
			"category":          req.Category,
			"city":              req.City,
			"adjustment_amount": req.AdjustmentAmount,
			"modified_count":    count,
		}, nil)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoCityPricesMatched) {
			return nil, NewBusinessError("NO_CITY_PRICES_MATCHED", "No city prices matched the given filter", ErrNoCityPricesMatched)
		}
		return nil, NewBusinessError("ADJUST_BASE_PRICE_FAILED", "Failed to adjust base prices", err)
	}

	rebaseOperationsTotal.Inc()
	rebaseRowsTotal.Add(float64(modified))
	invalidateCityPriceCache(ctx, f.rc, f.cacheConfig)

	return &dto.AdjustBasePriceResponse{
		Message:       "Base prices adjusted successfully",
		ModifiedCount: modified,
	}, nil
}

// ExportCityPrices renders the filtered city price listing as an xlsx workbook and
// returns the suggested filename with the file bytes
func (f *CityPriceAdminFlowImpl) ExportCityPrices(ctx context.Context, req *dto.ListCityPricesRequest, actor Actor) (string, []byte, error) {
	listing, err := f.ListCityPrices(ctx, req)
	if err != nil {
		return "", nil, err
	}

	workbook := excelize.NewFile()
	defer workbook.Close()

	const sheet = "City Prices"
	index, err := workbook.NewSheet(sheet)
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_CITY_PRICES_FAILED", "Failed to create export sheet", err)
	}
	workbook.SetActiveSheet(index)
	workbook.DeleteSheet("Sheet1")

	headers := []string{"City", "Category", "Default Price", "Base Price", "Last Adjustment", "Last Adjustment Date", "Created At"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := workbook.SetCellValue(sheet, cell, header); err != nil {
			return "", nil, NewBusinessError("EXPORT_CITY_PRICES_FAILED", "Failed to write export header", err)
		}
	}

	for i, item := range listing.Items {
		row := i + 2
		values := []any{
			item.City,
			item.Category,
			item.DefaultPrice,
			item.BasePrice,
			utils.FromPtr(item.LastAdjustmentAmount),
			utils.FromPtr(item.LastAdjustmentDate),
			item.CreatedAt,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := workbook.SetCellValue(sheet, cell, value); err != nil {
				return "", nil, NewBusinessError("EXPORT_CITY_PRICES_FAILED", "Failed to write export row", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return "", nil, NewBusinessError("EXPORT_CITY_PRICES_FAILED", "Failed to serialize export", err)
	}

	saveAudit(ctx, f.auditRepo, actor, models.AuditActionCityPricesExported, map[string]any{
		"rows": len(listing.Items),
	}, nil)

	filename := fmt.Sprintf("city_prices_%s.xlsx", utils.UTCNowFormat("20060102_150405"))
	return filename, buf.Bytes(), nil
}
