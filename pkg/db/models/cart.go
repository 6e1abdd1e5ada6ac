package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single active cart owned by a user. It is created lazily on the
// first add and deleted outright once an order is paid.
type Cart struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:carts_user_id_key"`
	DiscountID *uuid.UUID `gorm:"column:discount_id;type:uuid"`
	Discount   *Discount  `gorm:"foreignKey:DiscountID"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
