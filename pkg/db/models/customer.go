package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pharmadist/pricing-engine/pkg/enums"
)

// Customer is the directory view the pricing engine reads. A customer may
// reference at most one parent (two-level hierarchy); children never have
// children of their own.
type Customer struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	Name             string             `gorm:"column:name;not null"`
	Tier             enums.CustomerTier `gorm:"column:tier;type:customer_tier_enum;not null"`
	Type             enums.CustomerType `gorm:"column:type;type:customer_type_enum;not null"`
	ParentCustomerID *uuid.UUID         `gorm:"column:parent_customer_id;type:uuid"`
	Active           bool               `gorm:"column:active;not null;default:true"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
