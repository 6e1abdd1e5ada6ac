package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
)

// Discount is a coded reduction applied to a cart subtotal. Value holds the
// percentage for percentage kinds and the currency amount for fixed kinds.
type Discount struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string             `gorm:"column:code;not null;uniqueIndex"`
	Type               enums.DiscountType `gorm:"column:type;not null"`
	Kind               enums.DiscountKind `gorm:"column:kind;not null"`
	Value              decimal.Decimal    `gorm:"column:value;type:numeric(12,2);not null"`
	MinPurchase        decimal.Decimal    `gorm:"column:min_purchase;type:numeric(12,2);not null;default:0"`
	MaxDiscount        *decimal.Decimal   `gorm:"column:max_discount;type:numeric(12,2)"`
	BuyQty             *int               `gorm:"column:buy_qty"`
	GetQty             *int               `gorm:"column:get_qty"`
	ExcludedCategories pq.StringArray     `gorm:"column:excluded_categories;type:text[]"`
	ExcludedProducts   pq.StringArray     `gorm:"column:excluded_products;type:text[]"`
	IsActive           bool               `gorm:"column:is_active;not null;default:true"`
	ValidFrom          time.Time          `gorm:"column:valid_from;not null"`
	ValidUntil         time.Time          `gorm:"column:valid_until;not null"`
	UsageLimit         int                `gorm:"column:usage_limit;not null;default:0"`
	UsedCount          int                `gorm:"column:used_count;not null;default:0"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
