package promotions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmadist/pricing-engine/internal/repo"
	"github.com/pharmadist/pricing-engine/pkg/db/models"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
)

// Repository persists promotions and their usage ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.Promotion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	CountCustomerUsage(ctx context.Context, promotionID, customerID uuid.UUID) (int64, error)
	FindUsageByOrder(ctx context.Context, promotionID, orderID uuid.UUID) (*models.PromotionUsage, error)
	IncrementUsage(ctx context.Context, promotionID uuid.UUID, version int) (bool, error)
	CreateUsage(ctx context.Context, usage *models.PromotionUsage) error
}

type repository struct {
	base repo.Base
}

// NewRepository builds a promotion repository backed by the provided DB.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return nil
	}
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: r.base.Bind(tx)}
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.base.DB(ctx).Where("code = ?", code).First(&promotion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion code not found")
	}
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.base.DB(ctx).Where("id = ?", id).First(&promotion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *repository) CountCustomerUsage(ctx context.Context, promotionID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.base.DB(ctx).
		Model(&models.PromotionUsage{}).
		Where("promotion_id = ? AND customer_id = ?", promotionID, customerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) FindUsageByOrder(ctx context.Context, promotionID, orderID uuid.UUID) (*models.PromotionUsage, error) {
	var usage models.PromotionUsage
	err := r.base.DB(ctx).
		Where("promotion_id = ? AND order_id = ?", promotionID, orderID).
		First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

// IncrementUsage bumps the aggregate counter with an optimistic version guard.
// The cap predicate lives in the same statement so two racing applications can
// never both push the counter past max_usage_count. Returns false when the
// version moved or the cap is already consumed; the caller disambiguates.
func (r *repository) IncrementUsage(ctx context.Context, promotionID uuid.UUID, version int) (bool, error) {
	result := r.base.DB(ctx).
		Model(&models.Promotion{}).
		Where("id = ? AND version = ?", promotionID, version).
		Where("max_usage_count IS NULL OR current_usage_count < max_usage_count").
		Updates(map[string]any{
			"current_usage_count": gorm.Expr("current_usage_count + 1"),
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) CreateUsage(ctx context.Context, usage *models.PromotionUsage) error {
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	return r.base.DB(ctx).Create(usage).Error
}
