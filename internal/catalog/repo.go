package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
)

// ProductFilter narrows the product listing.
type ProductFilter struct {
	CategoryID     *uuid.UUID
	ManufacturerID *uuid.UUID
	Search         string
	Page           int
	PerPage        int
}

func (f ProductFilter) limits() (limit, offset int) {
	limit = f.PerPage
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// Repository exposes read operations over the product catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns active products matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ManufacturerID != nil {
		query = query.Where("manufacturer_id = ?", *filter.ManufacturerID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := filter.limits()
	var products []models.Product
	err := query.
		Preload("Category").
		Preload("Manufacturer").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindByID loads a product regardless of active state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Manufacturer").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByID loads a product only if it is currently sellable.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CategoryRepo exposes read operations over categories.
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo constructs a category repository.
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindBySlug loads a category by its slug.
func (r *CategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", strings.ToLower(strings.TrimSpace(slug))).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ManufacturerRepo exposes read operations over manufacturers.
type ManufacturerRepo struct {
	db *gorm.DB
}

// NewManufacturerRepo constructs a manufacturer repository.
func NewManufacturerRepo(db *gorm.DB) *ManufacturerRepo {
	return &ManufacturerRepo{db: db}
}

// List returns all manufacturers ordered by name.
func (r *ManufacturerRepo) List(ctx context.Context) ([]models.Manufacturer, error) {
	var manufacturers []models.Manufacturer
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&manufacturers).Error; err != nil {
		return nil, err
	}
	return manufacturers, nil
}
