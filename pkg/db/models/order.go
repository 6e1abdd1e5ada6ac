package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
	"github.com/rahulvarma/shopsphere-backend/pkg/types"
)

// Order is an immutable cart snapshot plus addresses and payment intent.
// Status moves pending -> paid -> shipped -> delivered, or -> cancelled.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountAmount  decimal.Decimal     `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	ShippingFee     decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(12,2);not null;default:0"`
	GrandTotal      decimal.Decimal     `gorm:"column:grand_total;type:numeric(12,2);not null"`
	DiscountCode    *string             `gorm:"column:discount_code"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	ShippingAddress types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  types.Address       `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Note            *string             `gorm:"column:note"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt          *time.Time          `gorm:"column:paid_at"`
	CancelledAt     *time.Time          `gorm:"column:cancelled_at"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
