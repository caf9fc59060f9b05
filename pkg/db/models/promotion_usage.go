package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionUsage is one row in the append-only usage ledger. Rows are never
// updated or deleted; the unique (promotion_id, order_id) index makes
// promotion application idempotent per order.
type PromotionUsage struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	PromotionID     uuid.UUID       `gorm:"column:promotion_id;type:uuid;not null;index:idx_promotion_usages_customer;uniqueIndex:idx_promotion_usages_order"`
	CustomerID      uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index:idx_promotion_usages_customer"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_promotion_usages_order"`
	DiscountApplied decimal.Decimal `gorm:"column:discount_applied;type:numeric(12,4);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
