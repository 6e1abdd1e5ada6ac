package blog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
)

// BlogRepository defines the persistence surface for editorial posts.
type BlogRepository interface {
	ListPublished(ctx context.Context, limit, offset int) ([]models.BlogPost, int64, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
}

// Repository exposes read operations over published blog posts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a blog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListPublished returns published posts, newest first, plus the total count.
func (r *Repository) ListPublished(ctx context.Context, limit, offset int) ([]models.BlogPost, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("published_at IS NOT NULL AND published_at <= now()")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.BlogPost
	err := query.
		Order("published_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// FindPublishedBySlug loads one published post by slug.
func (r *Repository) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).
		Where("slug = ? AND published_at IS NOT NULL AND published_at <= now()", strings.ToLower(strings.TrimSpace(slug))).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}
