package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
)

// UserRepository defines the persistence surface for users.
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// AddressRepository defines the persistence surface for saved addresses.
type AddressRepository interface {
	WithTx(tx *gorm.DB) AddressRepository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindForUser(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	FindDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}
