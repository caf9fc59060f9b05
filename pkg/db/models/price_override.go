package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/pkg/enums"
)

// PriceOverride supersedes the catalog base price for a product within a
// validity window. CustomerID and RegionID narrow the override's audience;
// both unset means the override is global for its price type.
type PriceOverride struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index:idx_price_overrides_product_type"`
	CustomerID *uuid.UUID      `gorm:"column:customer_id;type:uuid"`
	RegionID   *uuid.UUID      `gorm:"column:region_id;type:uuid"`
	PriceType  enums.PriceType `gorm:"column:price_type;type:price_type_enum;not null;index:idx_price_overrides_product_type"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,4);not null"`
	ValidFrom  time.Time       `gorm:"column:valid_from;not null"`
	ValidTo    *time.Time      `gorm:"column:valid_to"`
	Priority   int             `gorm:"column:priority;not null;default:0"`
	Active     bool            `gorm:"column:active;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
