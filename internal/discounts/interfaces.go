package discounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
)

// DiscountRepository defines the persistence surface required by the discount service.
type DiscountRepository interface {
	WithTx(tx *gorm.DB) DiscountRepository
	FindByCode(ctx context.Context, code string) (*models.Discount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
