package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/pkg/enums"
)

// PriceRule is a conditional discount scoped globally or to a product,
// category, or manufacturer, with optional customer targeting and quantity
// bounds. At most one rule is ever applied per calculation.
type PriceRule struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	Name          string                 `gorm:"column:name;not null"`
	Scope         enums.RuleScope        `gorm:"column:scope;type:rule_scope_enum;not null;index:idx_price_rules_scope"`
	ScopeID       *uuid.UUID             `gorm:"column:scope_id;type:uuid;index:idx_price_rules_scope"`
	CustomerID    *uuid.UUID             `gorm:"column:customer_id;type:uuid"`
	RequiredTier  *enums.CustomerTier    `gorm:"column:required_tier;type:customer_tier_enum"`
	RequiredType  *enums.CustomerType    `gorm:"column:required_type;type:customer_type_enum"`
	DiscountKind  enums.RuleDiscountKind `gorm:"column:discount_kind;type:rule_discount_kind_enum;not null"`
	DiscountValue decimal.Decimal        `gorm:"column:discount_value;type:numeric(12,4);not null"`
	MinQuantity   *int                   `gorm:"column:min_quantity"`
	MaxQuantity   *int                   `gorm:"column:max_quantity"`
	ValidFrom     *time.Time             `gorm:"column:valid_from"`
	ValidTo       *time.Time             `gorm:"column:valid_to"`
	Priority      int                    `gorm:"column:priority;not null;default:0"`
	Active        bool                   `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
