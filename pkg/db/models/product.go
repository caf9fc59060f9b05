package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog view the pricing engine reads. The catalog service
// owns these rows; the engine never writes them.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	SKU            string          `gorm:"column:sku;not null;uniqueIndex"`
	Name           string          `gorm:"column:name;not null"`
	BasePrice      decimal.Decimal `gorm:"column:base_price;type:numeric(12,4);not null"`
	CategoryID     uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	ManufacturerID uuid.UUID       `gorm:"column:manufacturer_id;type:uuid;not null"`
	Active         bool            `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
