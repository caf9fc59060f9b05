package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/pkg/enums"
)

// Promotion is a code-activated, time-boxed, usage-capped discount campaign.
// CurrentUsageCount is the aggregate counter guarded by Version; the
// promotion_usages ledger is the authoritative per-customer record.
type Promotion struct {
	ID                  uuid.UUID                   `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	Code                string                      `gorm:"column:code;not null;uniqueIndex"`
	Name                string                      `gorm:"column:name;not null"`
	DiscountKind        enums.PromotionDiscountKind `gorm:"column:discount_kind;type:promotion_discount_kind_enum;not null"`
	DiscountValue       decimal.Decimal             `gorm:"column:discount_value;type:numeric(12,4);not null"`
	MinimumOrderAmount  *decimal.Decimal            `gorm:"column:minimum_order_amount;type:numeric(12,4)"`
	MaxDiscountAmount   *decimal.Decimal            `gorm:"column:max_discount_amount;type:numeric(12,4)"`
	StartDate           time.Time                   `gorm:"column:start_date;not null"`
	EndDate             time.Time                   `gorm:"column:end_date;not null"`
	MaxUsageCount       *int                        `gorm:"column:max_usage_count"`
	CurrentUsageCount   int                         `gorm:"column:current_usage_count;not null;default:0"`
	MaxUsagePerCustomer *int                        `gorm:"column:max_usage_per_customer"`
	TargetCustomerID    *uuid.UUID                  `gorm:"column:target_customer_id;type:uuid"`
	ApplyToChildren     bool                        `gorm:"column:apply_to_children;not null;default:false"`
	RequiredTier        *enums.CustomerTier         `gorm:"column:required_tier;type:customer_tier_enum"`
	RequiredType        *enums.CustomerType         `gorm:"column:required_type;type:customer_type_enum"`
	CanStackWithPromos  bool                        `gorm:"column:can_stack_with_promos;not null;default:false"`
	CanStackWithTier    bool                        `gorm:"column:can_stack_with_tier;not null;default:true"`
	Active              bool                        `gorm:"column:active;not null;default:true"`
	Version             int                         `gorm:"column:version;not null;default:0"`
	CreatedAt           time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}
