package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
	"github.com/rahulvarma/shopsphere-backend/pkg/razorpay"
)

// PaymentSessionRepository defines the persistence surface for checkout attempts.
type PaymentSessionRepository interface {
	WithTx(tx *gorm.DB) PaymentSessionRepository
	Create(ctx context.Context, session *models.PaymentSession) error
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.PaymentSession, error)
	MarkStatus(ctx context.Context, id uuid.UUID, status enums.PaymentSessionStatus, failureReason *string) error
	Consume(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type defaultAddressLoader interface {
	DefaultAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

type paymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type sessionCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	PaymentSessionKey(providerOrderID string) string
}
