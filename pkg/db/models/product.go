package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU            string           `gorm:"column:sku;not null;uniqueIndex"`
	Title          string           `gorm:"column:title;not null"`
	Description    string           `gorm:"column:description;not null;default:''"`
	CategoryID     uuid.UUID        `gorm:"column:category_id;type:uuid;not null;index:products_category_id_idx"`
	ManufacturerID *uuid.UUID       `gorm:"column:manufacturer_id;type:uuid;index:products_manufacturer_id_idx"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Images         pq.StringArray   `gorm:"column:images;type:text[]"`
	StockQty       int              `gorm:"column:stock_qty;not null;default:0"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true"`
	Category       *Category        `gorm:"foreignKey:CategoryID"`
	Manufacturer   *Manufacturer    `gorm:"foreignKey:ManufacturerID"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
