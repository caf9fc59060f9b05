package rules

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmadist/pricing-engine/internal/repo"
	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
)

// Repository loads rule candidates for one product at a point in time.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCandidates(ctx context.Context, productID, categoryID, manufacturerID uuid.UUID, asOf time.Time) ([]models.PriceRule, error)
}

type repository struct {
	base repo.Base
}

// NewRepository builds a price-rule repository backed by the provided DB.
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

// FindCandidates returns active rules whose validity window contains asOf and
// whose scope can possibly match the product: global rules plus rules pinned
// to the product, its category, or its manufacturer. Targeting and quantity
// bounds are evaluated in-process by the matcher.
func (r *repository) FindCandidates(ctx context.Context, productID, categoryID, manufacturerID uuid.UUID, asOf time.Time) ([]models.PriceRule, error) {
	var candidates []models.PriceRule
	err := r.base.DB(ctx).
		Where("active = ?", true).
		Where("valid_from IS NULL OR valid_from <= ?", asOf).
		Where("valid_to IS NULL OR valid_to >= ?", asOf).
		Where(
			"scope = ? OR (scope = ? AND scope_id = ?) OR (scope = ? AND scope_id = ?) OR (scope = ? AND scope_id = ?)",
			enums.RuleScopeGlobal,
			enums.RuleScopeProduct, productID,
			enums.RuleScopeCategory, categoryID,
			enums.RuleScopeManufacturer, manufacturerID,
		).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
