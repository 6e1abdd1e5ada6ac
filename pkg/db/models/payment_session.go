package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
)

// PaymentSession is the ephemeral record of one checkout attempt against the
// payment provider. One row per initiate call; consumed exactly once.
type PaymentSession struct {
	ID              uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID                  `gorm:"column:order_id;type:uuid;not null;index:payment_sessions_order_id_idx"`
	ProviderOrderID string                     `gorm:"column:provider_order_id;not null;uniqueIndex"`
	KeyID           string                     `gorm:"column:key_id;not null"`
	AmountPaise     int64                      `gorm:"column:amount_paise;not null"`
	Currency        string                     `gorm:"column:currency;not null;default:'INR'"`
	Status          enums.PaymentSessionStatus `gorm:"column:status;not null;default:'initiated'"`
	FailureReason   *string                    `gorm:"column:failure_reason"`
	ExpiresAt       time.Time                  `gorm:"column:expires_at;not null"`
	ConsumedAt      *time.Time                 `gorm:"column:consumed_at"`
	CreatedAt       time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
