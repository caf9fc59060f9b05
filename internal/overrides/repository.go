package overrides

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmadist/pricing-engine/internal/repo"
	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
)

// Repository loads override candidates for one product/price-type pair.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCandidates(ctx context.Context, productID uuid.UUID, priceType enums.PriceType, asOf time.Time) ([]models.PriceOverride, error)
}

type repository struct {
	base repo.Base
}

// NewRepository builds an override repository backed by the provided DB.
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

// FindCandidates returns active overrides for the product and price type whose
// validity window contains asOf. Customer/region targeting is filtered by the
// resolver, which also ranks the survivors.
func (r *repository) FindCandidates(ctx context.Context, productID uuid.UUID, priceType enums.PriceType, asOf time.Time) ([]models.PriceOverride, error) {
	var candidates []models.PriceOverride
	err := r.base.DB(ctx).
		Where("product_id = ? AND price_type = ? AND active = ?", productID, priceType, true).
		Where("valid_from <= ?", asOf).
		Where("valid_to IS NULL OR valid_to >= ?", asOf).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
