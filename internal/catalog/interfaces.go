package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
)

// ProductRepository defines the persistence surface for catalog products.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CategoryRepository defines the persistence surface for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// ManufacturerRepository defines the persistence surface for manufacturers.
type ManufacturerRepository interface {
	List(ctx context.Context) ([]models.Manufacturer, error)
}
